package books

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// contentSections are appended after the opening paragraph. Placeholders are
// {title}, {author}, {year} and {genre}; genre is lower-cased.
var contentSections = []string{
	"{title} by {author} is widely regarded as one of the defining works of {genre} literature. First published in {year}, it has held readers for generations with its narrative and its themes.",
	"The story opens in a world that feels both familiar and strange. Page by page, readers find layers of meaning that speak to ordinary lives, and {author} keeps every thread of the plot moving from the first line to the last.",
	"Chapter One: The Beginning\n\nMorning light stretched across the land as the story began. Something was about to change, and the air itself seemed to know it. Our protagonist stood at the edge of a long road, unaware of what waited further on.",
	"Every journey starts with a single step, and this one is no exception. The first chapter sets the stage for all that follows and introduces a cast of characters who will feel like old friends by the end.",
	"Chapter Two: Setting Out\n\nDays became weeks as the journey went on. Each chapter brought new discoveries and unexpected turns. The world of {title} is drawn in careful detail, carrying readers to another time and place.",
	"Love, loss, redemption and the search for meaning run through the whole book and reach readers of every age. The prose of {author} is elegant yet plain, and it rewards a second reading.",
	"Chapter Three: Trials\n\nNo great story lacks conflict, and {title} has plenty. The characters meet obstacles that seem impossible to overcome, yet they keep going, and their struggles mirror our own.",
	"As the plot unfolds there are moments of heartbreak and moments of joy. The emotion on the page is genuine and draws readers fully into the story, until the fate of these characters matters as much as anything real.",
	"Chapter Four: The Heart of It\n\nAt its core, {title} is about the choices people make and how those choices shape them. It asks what it means to love, to fail and to start again, questions that keep the book in print.",
	"The middle of the book is especially gripping. The pace quickens and the stakes rise, and {author} builds tension without ever losing sight of the people at the centre of the story.",
	"Chapter Five: Revelations\n\nSecrets surface and the story turns in directions few readers expect. Threads that once seemed unrelated come together, and what looked random begins to look inevitable.",
	"Relationships deepen and shift. Alliances change, motives are questioned and each character is slowly revealed. {title} is as much a study of people as it is a {genre} tale.",
	"Chapter Six: The Climax\n\nEverything the book has built up converges at last. The investment readers have made in these characters pays off, and this part of the story lands with real force.",
	"Every word feels chosen and every scene placed with care. The craft of {author} is at its sharpest here as the story races toward its end.",
	"Chapter Seven: Resolution\n\nIn the final pages loose ends are tied and fates are settled. The ending satisfies and still leaves plenty to think about long after the last page, which is the mark of lasting literature.",
	"{title} remains a testament to the talent of {author} and essential reading for anyone who loves well made {genre} fiction. Its influence on the books that followed is hard to overstate.",
	"The End\n\nThank you for reading {title}. We hope this journey through the imagination of {author} has been as rewarding for you as it has been for so many readers before.",
}

// SynthesizeContent builds a full text for a book from its metadata. Existing
// content, if any, becomes the opening paragraph.
func SynthesizeContent(book entities.Book) string {
	intro := book.ContentText()
	if intro == "" {
		intro = "This is the story of " + book.Title + "."
	}

	replacer := strings.NewReplacer(
		"{title}", book.Title,
		"{author}", book.Author,
		"{year}", strconv.Itoa(book.Year),
		"{genre}", cases.Lower(language.Und).String(book.Genre),
	)

	var sb strings.Builder
	sb.WriteString(intro)
	for _, section := range contentSections {
		sb.WriteString("\n\n")
		sb.WriteString(replacer.Replace(section))
	}
	return sb.String()
}
