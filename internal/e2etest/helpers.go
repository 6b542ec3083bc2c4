package e2etest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindTableAfterHeading returns the first table following the heading whose text is headingText.
func FindTableAfterHeading(doc *goquery.Document, headingText string) (*goquery.Selection, error) {
	heading := doc.Find("h1,h2,h3,h4").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == headingText
	}).First()
	if heading.Length() == 0 {
		return nil, fmt.Errorf("heading not found: %s", headingText)
	}
	table := heading.NextAllFiltered("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table after heading: %s", headingText)
	}
	return table, nil
}

// TableColumn returns the trimmed text of column index in every body row of table.
func TableColumn(table *goquery.Selection, index int) []string {
	var column []string
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		column = append(column, strings.TrimSpace(row.Find("td").Eq(index).Text()))
	})
	return column
}
