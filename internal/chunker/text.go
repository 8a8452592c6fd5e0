package chunker

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/passim-search/passim/internal/core/domain"
)

// Default text chunking tuning.
const (
	DefaultMinTokens    = 400
	DefaultMaxTokens    = 800
	DefaultOverlapRatio = 0.18
)

// pageMarker prefixes lines that reset the running page counter inside a
// text block (emitted by parsers for pre-joined page streams).
const pageMarker = "[[PAGE:"

// maxHeadingLen caps a chunk's heading trail.
const maxHeadingLen = 300

// Options tunes the text chunker.
type Options struct {
	// MinTokens is the minimum buffer size before a flush may happen.
	MinTokens int

	// MaxTokens is the packing budget. A single oversized sub-block may
	// still exceed it; that is accepted, not an error.
	MaxTokens int

	// OverlapRatio is the fraction of a flushed buffer's characters
	// carried over as the seed of the next buffer.
	OverlapRatio float64
}

// DefaultOptions returns the default text chunking tuning.
func DefaultOptions() Options {
	return Options{
		MinTokens:    DefaultMinTokens,
		MaxTokens:    DefaultMaxTokens,
		OverlapRatio: DefaultOverlapRatio,
	}
}

// subBlock is a structural unit within a text block: the lines between two
// headings or page markers, with the heading trail in effect.
type subBlock struct {
	page    int
	heading string
	text    string
}

// splitStructure scans a text block's lines into structural sub-blocks.
// A line that is entirely upper-case and under 80 characters, or that ends
// with a colon, is pushed onto the heading stack (depth 3, most specific
// last). A page-marker line resets the page counter and flushes the
// current sub-block. Heading lines remain part of the body so that no
// content is lost.
func splitStructure(text string, page int) []subBlock {
	var (
		out     []subBlock
		stack   []string
		current []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, subBlock{
			page:    page,
			heading: headingTrail(stack),
			text:    strings.TrimSpace(strings.Join(current, "\n")),
		})
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, pageMarker) {
			flush()
			if p, ok := parsePageMarker(line); ok {
				page = p
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && (strings.HasSuffix(trimmed, ":") || (isUpperLine(line) && len(trimmed) < 80)) {
			stack = append(stack, strings.Trim(trimmed, ":"))
		}
		current = append(current, line)
	}
	flush()

	return out
}

// headingTrail joins the most specific heading-stack entries (up to 3).
func headingTrail(stack []string) string {
	if len(stack) > 3 {
		stack = stack[len(stack)-3:]
	}
	return strings.Join(stack, " / ")
}

// parsePageMarker extracts n from "[[PAGE:n]]".
func parsePageMarker(line string) (int, bool) {
	rest := strings.TrimPrefix(line, pageMarker)
	end := strings.Index(rest, "]")
	if end < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// isUpperLine reports whether the line has at least one letter and no
// lower-case letters.
func isUpperLine(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// ChunkText packs text blocks into token-budgeted overlapping chunks.
// Empty blocks are skipped. The final non-empty buffer is always flushed,
// even when under MinTokens.
func ChunkText(blocks []domain.Block, opts Options) []domain.Chunk {
	var subs []subBlock
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		page := b.Page
		if page < 1 {
			page = 1
		}
		subs = append(subs, splitStructure(b.Text, page)...)
	}

	var (
		chunks      []domain.Chunk
		buf         []string
		bufPages    []int
		bufHeadings []string
		curTokens   int
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				ContentType:     domain.ContentText,
				Text:            text,
				Pages:           pageSet(bufPages),
				Heading:         chunkHeading(bufHeadings),
				TableChunkIndex: -1,
			})
		}
		buf, bufPages, bufHeadings, curTokens = nil, nil, nil, 0
	}

	for _, sb := range subs {
		text := strings.TrimSpace(sb.text)
		if text == "" {
			continue
		}
		tokens := EstimateTokens(text)
		if curTokens+tokens > opts.MaxTokens && curTokens >= opts.MinTokens {
			// Seed the next buffer with a character suffix of the flushed
			// one. The suffix is not token aware and may split a word;
			// that matches the overlap contract.
			old := strings.Join(buf, "\n")
			keep := int(float64(len(old)) * opts.OverlapRatio)
			var tail string
			if keep > 0 && keep <= len(old) {
				tail = old[len(old)-keep:]
			}
			flush()
			if strings.TrimSpace(tail) != "" {
				buf = []string{tail}
				curTokens = EstimateTokens(tail)
			}
		}
		buf = append(buf, text)
		bufPages = append(bufPages, sb.page)
		bufHeadings = append(bufHeadings, sb.heading)
		curTokens += tokens
	}
	flush()

	return chunks
}

// chunkHeading picks the most recent non-empty heading trail, truncated.
func chunkHeading(headings []string) string {
	for i := len(headings) - 1; i >= 0; i-- {
		if headings[i] == "" {
			continue
		}
		h := headings[i]
		if len(h) > maxHeadingLen {
			h = h[:maxHeadingLen]
		}
		return h
	}
	return ""
}

// pageSet returns the sorted set of page numbers.
func pageSet(pages []int) []int {
	seen := make(map[int]bool, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
