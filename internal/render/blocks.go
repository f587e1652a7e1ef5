package render

import (
	"regexp"
	"strings"
	"unicode"
)

// BlockKind classifies a parsed content block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBullet
	BlockJobTitle
)

// Block is one line-level unit inside a section.
type Block struct {
	Kind BlockKind
	Text string
}

// Section groups blocks under a heading. Title is empty for the implicit
// section created when content appears before any header.
type Section struct {
	Title  string
	Blocks []Block
}

// Document is the parsed form of a rewritten resume, consumed only by the
// renderer and discarded once PDF bytes are produced.
type Document struct {
	Name     string
	Contact  string
	Sections []Section
}

// Bullets returns the texts of the section's bullet blocks.
func (s Section) Bullets() []string {
	var out []string
	for _, b := range s.Blocks {
		if b.Kind == BlockBullet {
			out = append(out, b.Text)
		}
	}
	return out
}

// AllBullets reports whether every block in the section is a bullet.
func (s Section) AllBullets() bool {
	if len(s.Blocks) == 0 {
		return false
	}
	for _, b := range s.Blocks {
		if b.Kind != BlockBullet {
			return false
		}
	}
	return true
}

// Section names the LLM tends to emit without uppercasing them.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^resum[oé]\s*profissional`),
	regexp.MustCompile(`(?i)^experi[eê]ncia\s*profissional`),
	regexp.MustCompile(`(?i)^forma[çc][aã]o\s*acad[eê]mica`),
	regexp.MustCompile(`(?i)^habilidades`),
	regexp.MustCompile(`(?i)^compet[eê]ncias`),
	regexp.MustCompile(`(?i)^softwares?\s*(e\s*ferramentas)?`),
	regexp.MustCompile(`(?i)^ferramentas`),
	regexp.MustCompile(`(?i)^idiomas`),
	regexp.MustCompile(`(?i)^certifica[çc][oõ]es`),
	regexp.MustCompile(`(?i)^cursos`),
	regexp.MustCompile(`(?i)^projetos`),
	regexp.MustCompile(`(?i)^objetivo`),
	regexp.MustCompile(`(?i)^informa[çc][oõ]es?\s*(adicionais|pessoais|complementares)`),
	regexp.MustCompile(`(?i)^links?\s*(e\s*refer[eê]ncias)?`),
	regexp.MustCompile(`(?i)^refer[eê]ncias`),
	regexp.MustCompile(`(?i)^atividades`),
	regexp.MustCompile(`(?i)^trabalhos?\s*volunt`),
}

var phoneRe = regexp.MustCompile(`\(\d{2}\)\s*\d{4,5}`)

type parseState int

const (
	stateBeforeContact parseState = iota
	stateInSection
	stateInBulletRun
)

// parseDocument applies the line grammar to the rewritten text: the first
// non-empty line is the candidate name, a few short lines after it form the
// contact header, uppercase (or well-known) lines open sections, dash/dot
// prefixed lines are bullets, everything else is a paragraph.
func parseDocument(text string) Document {
	lines := strings.Split(text, "\n")
	doc := Document{}
	state := stateBeforeContact

	idx := 0
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx < len(lines) {
		doc.Name = strings.TrimSpace(lines[idx])
		idx++
	}

	// Contact lines directly after the name.
	var contact []string
	for idx < len(lines) {
		line := strings.TrimSpace(lines[idx])
		if line == "" {
			idx++
			continue
		}
		if isContactLine(line) || (!isSectionHeader(line) && !isBullet(line) && len(contact) < 3 && len(line) < 120) {
			contact = append(contact, line)
			idx++
			continue
		}
		break
	}
	doc.Contact = strings.Join(contact, " | ")

	var current *Section
	appendBlock := func(b Block) {
		if current == nil {
			doc.Sections = append(doc.Sections, Section{})
			current = &doc.Sections[len(doc.Sections)-1]
		}
		current.Blocks = append(current.Blocks, b)
	}

	for ; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		if line == "" {
			if state == stateInBulletRun {
				state = stateInSection
			}
			continue
		}

		if isSeparatorLine(line) {
			continue
		}

		if isSectionHeader(line) {
			title, inline := splitSectionTitle(line)
			doc.Sections = append(doc.Sections, Section{Title: title})
			current = &doc.Sections[len(doc.Sections)-1]
			if inline != "" {
				current.Blocks = append(current.Blocks, Block{Kind: BlockParagraph, Text: inline})
			}
			state = stateInSection
			continue
		}

		if isBullet(line) {
			appendBlock(Block{Kind: BlockBullet, Text: trimBullet(line)})
			state = stateInBulletRun
			continue
		}

		if strings.Contains(line, "|") && len(line) < 120 {
			appendBlock(Block{Kind: BlockJobTitle, Text: line})
		} else {
			appendBlock(Block{Kind: BlockParagraph, Text: line})
		}
		state = stateInSection
	}

	return doc
}

// isSectionHeader matches a short all-uppercase line or one of the known
// resume section names.
func isSectionHeader(line string) bool {
	title := line
	if i := strings.Index(title, ":"); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSpace(strings.TrimRight(title, ":"))
	if title == "" {
		return false
	}
	if len(title) < 60 && isAllUpper(title) {
		return true
	}
	for _, re := range sectionPatterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// splitSectionTitle separates an inline-content header like
// "Ferramentas: Git, Postman" into title and trailing content.
func splitSectionTitle(line string) (title, inline string) {
	if i := strings.Index(line, ":"); i >= 0 {
		content := strings.TrimSpace(line[i+1:])
		if len(content) > 10 {
			return strings.TrimSpace(line[:i]), content
		}
	}
	return strings.TrimRight(strings.TrimSpace(line), ":"), ""
}

// isSeparatorLine matches a ruled line of dashes/underscores under a header.
func isSeparatorLine(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' && r != '_' && r != '=' && r != ' ' {
			return false
		}
	}
	return true
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

var bulletPrefixes = []string{"•", "-", "–", "—", "*", "►", "▪", "●"}

func isBullet(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			// A separator line of dashes is not a bullet.
			return !isSeparatorLine(line)
		}
	}
	return false
}

func trimBullet(line string) string {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(strings.TrimPrefix(line, p))
		}
	}
	return line
}

func isContactLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range []string{"@", "linkedin", "github", "telefone", "tel:", "fone:", "celular"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return phoneRe.MatchString(line)
}
