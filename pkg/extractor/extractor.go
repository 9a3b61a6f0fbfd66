// Package extractor parses one rendered listing page into structured
// validation records.
//
// Each ACC3 entry is an article block whose bolded lead paragraph carries the
// permit identifier. The remaining labeled paragraphs become record fields:
// the two name/code labels decompose into separate name and code fields,
// everything else is stored under its normalized label. Malformed composite
// values degrade to an omitted field with a diagnostic, never to a skipped
// block or an aborted page.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "acc3scraper/pkg/errors"
	"acc3scraper/pkg/logger"
	"acc3scraper/pkg/records"
)

const (
	entryBlockSelector = "article.ng-star-inserted"
	permitSelector     = "p.ecl-u-type-bold"
	paragraphSelector  = "p.ecl-u-type-paragraph-m"
	labelSelector      = "span.ecl-u-type-bold"

	carrierLabel = "Air carrier Name (Code)"
	airportLabel = "Airport Name (Code)"

	compositeSeparator = " - "
)

// Extractor parses rendered listing pages
type Extractor struct {
	log logger.Logger
}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{log: logger.GetLogger()}
}

// Extract parses the page's HTML into records. Blocks yielding no fields are
// discarded. The page number is used for diagnostics only.
func (e *Extractor) Extract(html string, page int) ([]*records.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeParsing, "failed to parse page content", err)
	}

	var out []*records.Record
	doc.Find(entryBlockSelector).Each(func(_ int, block *goquery.Selection) {
		rec := e.extractBlock(block, page)
		if rec.Len() > 0 {
			out = append(out, rec)
		}
	})

	e.log.DebugWithFields("Page extracted", map[string]interface{}{
		"page":    page,
		"records": len(out),
	})

	return out, nil
}

// extractBlock builds a record from a single entry block
func (e *Extractor) extractBlock(block *goquery.Selection, page int) *records.Record {
	rec := records.New()

	if permitID := collapse(block.Find(permitSelector).First().Text()); permitID != "" {
		rec.Set(records.FieldPermitID, permitID)
	}

	block.Find(paragraphSelector).Each(func(_ int, para *goquery.Selection) {
		span := para.Find(labelSelector).First()
		if span.Length() == 0 {
			return
		}

		rawLabel := span.Text()
		label := strings.TrimSuffix(collapse(rawLabel), ":")
		// The label span is part of the paragraph text; drop its first
		// occurrence to leave the value.
		value := collapse(strings.Replace(para.Text(), rawLabel, "", 1))

		switch label {
		case carrierLabel:
			e.setCarrier(rec, value, page)
		case airportLabel:
			e.setAirport(rec, value, page)
		default:
			rec.Set(normalizeKey(label), value)
		}
	})

	return rec
}

// setCarrier decomposes "<...> - <Name> - (<Code>)". The name is the
// second-to-last segment, the code the last segment without parentheses.
func (e *Extractor) setCarrier(rec *records.Record, value string, page int) {
	parts := strings.Split(value, compositeSeparator)
	if len(parts) < 2 {
		e.log.WarnWithFields("Unexpected air carrier name/code format", map[string]interface{}{
			"page":  page,
			"value": value,
		})
		return
	}
	rec.Set(records.FieldCarrierName, strings.TrimSpace(parts[len(parts)-2]))
	rec.Set(records.FieldCarrierCode, trimParens(parts[len(parts)-1]))
}

// setAirport decomposes "<Name> - (<Code>)". Airport names may themselves
// contain the separator, so everything but the last segment is the name.
func (e *Extractor) setAirport(rec *records.Record, value string, page int) {
	parts := strings.Split(value, compositeSeparator)
	if len(parts) < 2 {
		e.log.WarnWithFields("Unexpected airport name/code format", map[string]interface{}{
			"page":  page,
			"value": value,
		})
		return
	}
	name := strings.TrimSpace(strings.Join(parts[:len(parts)-1], compositeSeparator))
	rec.Set(records.FieldAirportName, name)
	rec.Set(records.FieldAirportCode, trimParens(parts[len(parts)-1]))
}

// normalizeKey turns an on-page label into a field name
func normalizeKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// trimParens strips surrounding whitespace and parentheses from a code segment
func trimParens(s string) string {
	return strings.Trim(strings.TrimSpace(s), "()")
}

// collapse normalizes whitespace: runs of spaces, tabs and newlines become a
// single space, with leading and trailing whitespace removed.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
