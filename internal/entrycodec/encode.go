package entrycodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/DBAtlas/models"
)

// Encode renders e as a Markdown document. It fails with ErrMalformedEntry
// when a single-line value (name, list item, link, metadata) contains a
// line break. Trailing line breaks in prose fields are not preserved;
// trailing whitespace-only lines are.
func Encode(e models.Entry) (string, error) {
	if err := singleLine("name", e.Name); err != nil {
		return "", err
	}
	fm, err := encodeFrontmatter(e)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fence + "\n")
	sb.Write(fm)
	sb.WriteString(fence + "\n\n")
	sb.WriteString(fmt.Sprintf("# %s\n\n", e.Name))

	for _, s := range sections {
		switch s.kind {
		case kindProse:
			v := *s.prose(&e)
			if v == "" && !s.always {
				continue
			}
			sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
			writeProse(&sb, v)

		case kindList:
			items := *s.list(&e)
			if len(items) == 0 && !s.always {
				continue
			}
			sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
			for _, item := range items {
				if err := singleLine(s.title, item); err != nil {
					return "", err
				}
				sb.WriteString("- " + item + "\n")
			}
			sb.WriteString("\n")

		case kindLinks:
			var lines []string
			for _, l := range links {
				v := *l.field(&e)
				if v == "" {
					continue
				}
				if err := singleLine(l.label, v); err != nil {
					return "", err
				}
				lines = append(lines, fmt.Sprintf("- %s: %s", l.label, v))
			}
			if len(lines) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
			sb.WriteString(strings.Join(lines, "\n") + "\n\n")

		case kindRatings:
			sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
			for _, r := range e.Ratings {
				meta := [][2]string{
					{keyRating, strconv.Itoa(r.Rating)},
					{keyDate, formatDate(r.Date)},
					{keyEmail, r.Email},
					{keyExperience, r.Experience},
					{keyUseCase, r.UseCase},
					{keyCompanySize, r.CompanySize},
					{keyIndustry, r.Industry},
				}
				if err := writeBlock(&sb, r.Username, meta, r.Comment); err != nil {
					return "", err
				}
			}

		case kindComments:
			sb.WriteString(fmt.Sprintf("## %s\n\n", s.title))
			for _, c := range e.Comments {
				helpful := ""
				if c.Helpful != 0 {
					helpful = strconv.Itoa(c.Helpful)
				}
				meta := [][2]string{
					{keyID, c.ID},
					{keyDate, formatDate(c.Date)},
					{keyEmail, c.Email},
					{keyExperience, c.Experience},
					{keyUseCase, c.UseCase},
					{keyHelpful, helpful},
				}
				if err := writeBlock(&sb, c.Username, meta, c.Content); err != nil {
					return "", err
				}
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

func singleLine(field, v string) error {
	if strings.ContainsAny(v, "\r\n") {
		return malformed("%s %q spans multiple lines", field, v)
	}
	return nil
}

func writeProse(sb *strings.Builder, text string) {
	text = strings.TrimRight(text, "\n")
	if text != "" {
		for _, line := range strings.Split(text, "\n") {
			sb.WriteString(escapeLine(line) + "\n")
		}
	}
	sb.WriteString("\n")
}

// writeBlock writes one "### header" block: metadata lines, a blank line,
// then the escaped free text.
func writeBlock(sb *strings.Builder, header string, meta [][2]string, body string) error {
	if header == "" {
		return malformed("interaction without username")
	}
	if err := singleLine("username", header); err != nil {
		return err
	}
	sb.WriteString(fmt.Sprintf("### %s\n", header))
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		if err := singleLine(kv[0], kv[1]); err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", kv[0], kv[1]))
	}
	sb.WriteString("\n")
	writeProse(sb, body)
	return nil
}
