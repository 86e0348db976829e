// Package extractor turns the HTML of a Google Form view page into a Form.
//
// Lookups are fixed class selectors. A selector that matches nothing leaves
// the corresponding field empty; extraction never fails.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/formtran/internal"
)

const (
	selFormTitle       = "div.freebirdFormviewerViewHeaderTitle"
	selFormDescription = "div.freebirdFormviewerViewHeaderDescription"
	selQuestion        = "div.freebirdFormviewerViewItemsItemItem"
	selQuestionTitle   = "div.freebirdFormviewerViewItemsItemItemTitle"
	selQuestionHelp    = "div.freebirdFormviewerViewItemsItemHelpText"
	selRequired        = "span.freebirdFormviewerViewItemsItemRequiredAsterisk"
	selRadioChoice     = "span.freebirdFormviewerViewItemsRadioChoice"
	selCheckboxChoice  = "span.freebirdFormviewerViewItemsCheckboxChoice"
)

// Extract parses html and returns whatever form content it can find.
func Extract(html string) internal.Form {
	form := internal.NewForm()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return form
	}

	form.Title = firstText(doc.Selection, selFormTitle)
	form.Description = firstText(doc.Selection, selFormDescription)

	doc.Find(selQuestion).Each(func(i int, s *goquery.Selection) {
		form.Questions = append(form.Questions, extractQuestion(i+1, s))
	})

	return form
}

func extractQuestion(id int, s *goquery.Selection) internal.Question {
	q := internal.Question{
		ID:          id,
		Title:       firstText(s, selQuestionTitle),
		Description: firstText(s, selQuestionHelp),
		Type:        internal.QuestionText,
		Options:     []string{},
		Required:    s.Find(selRequired).Length() > 0,
	}

	choices := s.Find(selRadioChoice)
	if choices.Length() > 0 {
		q.Type = internal.QuestionRadio
	} else if choices = s.Find(selCheckboxChoice); choices.Length() > 0 {
		q.Type = internal.QuestionCheckbox
	}

	choices.Each(func(_ int, c *goquery.Selection) {
		if text := strings.TrimSpace(c.Text()); text != "" {
			q.Options = append(q.Options, text)
		}
	})

	return q
}

func firstText(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
