package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/dnafl/scraper/internal/model"
	"github.com/ledongthuc/pdf"
)

// PageTexts extracts the plain text of every page. The whole document must
// already be in memory: text extraction needs random access, so PDFs are
// never parsed off a live network stream.
func PageTexts(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // a single unreadable page is not fatal
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PageRows extracts each page's text grouped into rows of cells, for PDFs
// that are really tables. Cells are split where the horizontal gap between
// text runs is larger than a word gap.
func PageRows(data []byte) ([][][]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages [][][]string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var pageRows [][]string
		for _, row := range rows {
			cells := groupCells(row.Content)
			if len(cells) > 0 {
				pageRows = append(pageRows, cells)
			}
		}
		pages = append(pages, pageRows)
	}
	return pages, nil
}

// groupCells merges adjacent text runs into cells, starting a new cell at
// any gap wide enough to be a column boundary rather than a word space.
func groupCells(texts []pdf.Text) []string {
	var cells []string
	var current strings.Builder
	var lastEnd float64

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			cells = append(cells, s)
		}
		current.Reset()
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if current.Len() > 0 {
			gap := t.X - lastEnd
			if gap > 3*t.FontSize {
				flush()
			} else if gap > t.FontSize/4 {
				current.WriteByte(' ')
			}
		}
		current.WriteString(t.S)
		lastEnd = t.X + approxWidth(t)
	}
	flush()
	return cells
}

func approxWidth(t pdf.Text) float64 {
	return t.FontSize * 0.5 * float64(len(t.S))
}

// HeaderIndex matches a tabular PDF's header row to field names by label
// text and returns the column index of each wanted label, or false when
// the row is not the header.
func HeaderIndex(cells []string, labels []string) (map[string]int, bool) {
	index := make(map[string]int)
	for _, label := range labels {
		for i, cell := range cells {
			if strings.EqualFold(strings.TrimSpace(cell), label) {
				index[label] = i
				break
			}
		}
	}
	if len(index) < len(labels) {
		return nil, false
	}
	return index, true
}

var keyValueRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 /._-]{0,40}?)\s*:\s*(.*)$`)

// SplitBlocks splits free text into candidate record blocks at every line
// starting with the anchor key (e.g. "Name:"). Text before the first
// anchor is preamble and dropped.
func SplitBlocks(text, anchorKey string) []string {
	anchorRe := regexp.MustCompile(`(?i)^\s*` + regexp.QuoteMeta(anchorKey) + `\s*:`)

	var blocks []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if anchorRe.MatchString(line) {
			if len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

// ParseBlock turns a record block of "Key: Value" lines into a map. A line
// without a key prefix continues the previous value.
func ParseBlock(block string) map[string]string {
	kv := make(map[string]string)
	var lastKey string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := keyValueRe.FindStringSubmatch(line); m != nil {
			key := strings.TrimSpace(m[1])
			kv[key] = strings.TrimSpace(m[2])
			lastKey = key
			continue
		}
		if lastKey != "" {
			kv[lastKey] = strings.TrimSpace(kv[lastKey] + " " + line)
		}
	}
	return kv
}

// KeyValueRecords extracts raw records from free text laid out as repeated
// "Key: Value" blocks. A block only qualifies when it carries the
// mandatory anchor key.
func KeyValueRecords(text, anchorKey string) []model.RawRecord {
	var records []model.RawRecord
	for _, block := range SplitBlocks(text, anchorKey) {
		kv := ParseBlock(block)
		name := ""
		for key, value := range kv {
			if strings.EqualFold(key, anchorKey) {
				name = value
				break
			}
		}
		if name == "" {
			continue
		}
		rec := model.RawRecord{}
		for key, value := range kv {
			rec[key] = value
		}
		rec["Details"] = strings.Join(strings.Fields(strings.ReplaceAll(block, "\n", " | ")), " ")
		records = append(records, rec)
	}
	return records
}
