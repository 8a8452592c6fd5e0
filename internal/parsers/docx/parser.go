// Package docx parses DOCX documents (ZIP archives of WordprocessingML),
// extracting paragraph text and tables from word/document.xml.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles DOCX documents.
type Parser struct{}

// New creates a new DOCX parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions handled.
func (p *Parser) Extensions() []string {
	return []string{".docx"}
}

// Parse returns the body text as one unpaginated block plus one table
// block per table in the document.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.Block, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a DOCX archive", domain.ErrInvalidInput, path)
	}
	defer reader.Close()

	content, err := readDocumentXML(&reader.Reader)
	if err != nil {
		return nil, err
	}

	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed document.xml", domain.ErrInvalidInput)
	}

	var blocks []domain.Block

	var paras []string
	for _, para := range doc.Body.Paragraphs {
		paras = append(paras, para.text())
	}
	if text := strings.Join(paras, "\n"); strings.TrimSpace(text) != "" {
		blocks = append(blocks, domain.Block{
			Kind: domain.BlockText,
			Page: 1,
			Text: text,
		})
	}

	for i, tbl := range doc.Body.Tables {
		rows := tbl.rows()
		cols := 0
		for _, r := range rows {
			if len(r) > cols {
				cols = len(r)
			}
		}
		blocks = append(blocks, domain.Block{
			Kind:        domain.BlockTable,
			Page:        1,
			Rows:        rows,
			ColumnCount: cols,
			TableID:     fmt.Sprintf("table:%d", i+1),
		})
	}

	return blocks, nil
}

// readDocumentXML extracts word/document.xml from the archive.
func readDocumentXML(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable document.xml", domain.ErrInvalidInput)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable document.xml", domain.ErrInvalidInput)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: missing word/document.xml", domain.ErrInvalidInput)
}

// documentXML mirrors the relevant structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type table struct {
	TableRows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return b.String()
}

func (t table) rows() [][]string {
	rows := make([][]string, 0, len(t.TableRows))
	for _, tr := range t.TableRows {
		cells := make([]string, 0, len(tr.Cells))
		for _, tc := range tr.Cells {
			var parts []string
			for _, p := range tc.Paragraphs {
				parts = append(parts, p.text())
			}
			cells = append(cells, strings.TrimSpace(strings.Join(parts, " ")))
		}
		rows = append(rows, cells)
	}
	return rows
}
