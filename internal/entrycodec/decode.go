package entrycodec

import (
	"strings"

	"github.com/josephgoksu/DBAtlas/models"
)

// Decode parses a document produced by Encode. Anything outside the known
// layout is rejected with an error wrapping ErrMalformedEntry: missing or
// unterminated frontmatter, unknown frontmatter keys, unknown or repeated
// sections, stray lines in list sections and non-numeric metadata.
func Decode(text string) (models.Entry, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(text, fence+"\n") {
		return models.Entry{}, malformed("missing frontmatter")
	}
	rest := text[len(fence)+1:]

	var raw, body string
	if end := strings.Index(rest, "\n"+fence+"\n"); end >= 0 {
		raw = rest[:end+1]
		body = rest[end+len(fence)+2:]
	} else if strings.HasSuffix(rest, "\n"+fence) {
		raw = strings.TrimSuffix(rest, fence)
	} else {
		return models.Entry{}, malformed("unterminated frontmatter")
	}

	fm, err := decodeFrontmatter(raw)
	if err != nil {
		return models.Entry{}, err
	}
	var e models.Entry
	fm.apply(&e)

	seen := make(map[string]bool)
	var current *section
	var lines []string

	flush := func() error {
		if current == nil {
			return nil
		}
		return decodeSection(&e, *current, lines)
	}

	for _, line := range strings.Split(body, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			if err := flush(); err != nil {
				return models.Entry{}, err
			}
			s, known := lookupSection(title)
			if !known {
				return models.Entry{}, malformed("unknown section %q", title)
			}
			if seen[title] {
				return models.Entry{}, malformed("duplicate section %q", title)
			}
			seen[title] = true
			current = &s
			lines = nil
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "# ") {
				continue
			}
			return models.Entry{}, malformed("unexpected line before first section: %q", line)
		}
		lines = append(lines, line)
	}
	if err := flush(); err != nil {
		return models.Entry{}, err
	}

	for _, s := range sections {
		if s.kind == kindList && s.always && *s.list(&e) == nil {
			*s.list(&e) = []string{}
		}
	}
	if e.Ratings == nil {
		e.Ratings = []models.Rating{}
	}
	if e.Comments == nil {
		e.Comments = []models.Comment{}
	}
	return e, nil
}

func decodeSection(e *models.Entry, s section, lines []string) error {
	switch s.kind {
	case kindProse:
		*s.prose(e) = joinProse(lines, true)

	case kindList:
		var items []string
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if line == "-" {
				items = append(items, "")
				continue
			}
			item, ok := strings.CutPrefix(line, "- ")
			if !ok {
				return malformed("section %q: expected list item, got %q", s.title, line)
			}
			items = append(items, item)
		}
		*s.list(e) = items

	case kindLinks:
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			k, v, err := metaLine(s.title, line)
			if err != nil {
				return err
			}
			found := false
			for _, l := range links {
				if l.label == k {
					*l.field(e) = v
					found = true
					break
				}
			}
			if !found {
				return malformed("section %q: unknown link %q", s.title, k)
			}
		}

	case kindRatings:
		blocks, err := parseBlocks(s.title, lines)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			r, err := b.rating()
			if err != nil {
				return err
			}
			e.Ratings = append(e.Ratings, r)
		}

	case kindComments:
		blocks, err := parseBlocks(s.title, lines)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			c, err := b.comment()
			if err != nil {
				return err
			}
			e.Comments = append(e.Comments, c)
		}
	}
	return nil
}

// joinProse unescapes lines and drops trailing empty lines. Lines holding
// only whitespace are content and are kept. When
// dropLeading is set, the single blank line that follows a heading is
// removed as well.
func joinProse(lines []string, dropLeading bool) string {
	if dropLeading && len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = unescapeLine(line)
	}
	return strings.Join(out, "\n")
}

func metaLine(where, line string) (string, string, error) {
	kv, ok := strings.CutPrefix(line, "- ")
	if !ok {
		return "", "", malformed("%s: expected \"- Key: value\", got %q", where, line)
	}
	k, v, ok := strings.Cut(kv, ": ")
	if !ok {
		// "- Key:" with an empty value
		if k, found := strings.CutSuffix(kv, ":"); found {
			return k, "", nil
		}
		return "", "", malformed("%s: expected \"- Key: value\", got %q", where, line)
	}
	return k, v, nil
}

type block struct {
	header string
	meta   map[string]string
	body   string
}

func parseBlocks(title string, lines []string) ([]block, error) {
	var blocks []block
	var cur *block
	var body []string
	inBody := false

	finish := func() {
		if cur != nil {
			cur.body = joinProse(body, false)
			blocks = append(blocks, *cur)
		}
	}

	for _, line := range lines {
		if header, ok := strings.CutPrefix(line, "### "); ok {
			finish()
			cur = &block{header: header, meta: make(map[string]string)}
			body = nil
			inBody = false
			continue
		}
		if cur == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, malformed("section %q: unexpected line %q", title, line)
		}
		if !inBody {
			if line == "" {
				inBody = true
				continue
			}
			k, v, err := metaLine(title+"/"+cur.header, line)
			if err != nil {
				return nil, err
			}
			cur.meta[k] = v
			continue
		}
		body = append(body, line)
	}
	finish()
	return blocks, nil
}

func (b block) rating() (models.Rating, error) {
	r := models.Rating{Username: b.header, Comment: b.body}
	if _, ok := b.meta[keyRating]; !ok {
		return r, malformed("rating by %q has no %s", b.header, keyRating)
	}
	for k, v := range b.meta {
		var err error
		switch k {
		case keyRating:
			r.Rating, err = parseInt(keyRating, v)
		case keyDate:
			r.Date, err = parseDate(v)
		case keyEmail:
			r.Email = v
		case keyExperience:
			r.Experience = v
		case keyUseCase:
			r.UseCase = v
		case keyCompanySize:
			r.CompanySize = v
		case keyIndustry:
			r.Industry = v
		default:
			err = malformed("rating by %q: unknown field %q", b.header, k)
		}
		if err != nil {
			return r, err
		}
	}
	return r, nil
}

func (b block) comment() (models.Comment, error) {
	c := models.Comment{Username: b.header, Content: b.body}
	if b.meta[keyID] == "" {
		return c, malformed("comment by %q has no %s", b.header, keyID)
	}
	for k, v := range b.meta {
		var err error
		switch k {
		case keyID:
			c.ID = v
		case keyDate:
			c.Date, err = parseDate(v)
		case keyEmail:
			c.Email = v
		case keyExperience:
			c.Experience = v
		case keyUseCase:
			c.UseCase = v
		case keyHelpful:
			c.Helpful, err = parseInt(keyHelpful, v)
		default:
			err = malformed("comment by %q: unknown field %q", b.header, k)
		}
		if err != nil {
			return c, err
		}
	}
	return c, nil
}
