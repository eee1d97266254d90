package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/curtisnewbie/ecbaes/errs"
	"github.com/curtisnewbie/ecbaes/logger"
	"github.com/curtisnewbie/ecbaes/util/flags"
	"github.com/curtisnewbie/ecbaes/version"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/dstutil"
)

const (
	ConfigPrefix = "ecbaesconfig-"

	tagSection = "section"
	tagProp    = "prop"
	tagDocOnly = "doc-only"
)

var (
	digits    = regexp.MustCompile(`^[0-9]*$`)
	codeBlock = regexp.MustCompile("^`(.*)`$")
)

const (
	DefaultConfigurationFile = "doc/config.md"
	ConfigTableEmbedStart    = "<!-- ecbaesconfig-table-start -->"
	ConfigTableEmbedEnd      = "<!-- ecbaesconfig-table-end -->"
	ConfigDefaultEmbedStart  = "// ecbaesconfig-default-start"
	ConfigDefaultEmbedEnd    = "// ecbaesconfig-default-end"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flags.NewSet("ecbaesconfig", out)
	fs.WithDescription(fmt.Sprintf("ecbaesconfig - generate configuration table based on ecbaesconfig-* comments (%v)", version.Version))
	fs.WithExtra(`For example, in prop.go:

  // ecbaesconfig-section: Cipher Configuration
  const (

	  // ecbaesconfig-prop: block transform engine | auto
	  PropCipherEngine = "cipher.engine"
  )

  // ecbaesconfig-default-start
  // ecbaesconfig-default-end

In ./doc/config.md:

  <!-- ecbaesconfig-table-start -->
  <!-- ecbaesconfig-table-end -->`)
	debug := fs.Bool("debug", false, "Enable debug log", false)
	dir := fs.String("dir", ".", "Root directory of the go source files", false)
	path := fs.String("path", DefaultConfigurationFile, "Path to the generated markdown config table file", false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *debug {
		logger.SetLogLevel("debug")
	}

	files, err := walkDir(*dir, ".go")
	if err != nil {
		return err
	}
	sections, err := parseFiles(files)
	if err != nil {
		return err
	}
	if len(sections) < 1 {
		logger.Infof("No ecbaesconfig-prop found in %v", *dir)
		return nil
	}

	if err := writeConfigTable(*path, renderConfigTable(sections)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated config table to %v\n", *path)

	for src, decls := range groupBySource(sections) {
		ok, err := writeDefaults(src, decls)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(out, "Generated default config code in %v\n", src)
		}
	}
	return nil
}

type ConfigSection struct {
	Name    string
	Configs []ConfigDecl
}

type ConfigDecl struct {
	Source       string
	Name         string
	ConstName    string
	Description  string
	DefaultValue string
	DocOnly      bool
}

type configTag struct {
	Command string
	Body    string
}

func parseConfigTags(start dst.Decorations) ([]configTag, bool) {
	t := []configTag{}
	for _, s := range start {
		s = strings.TrimSpace(s)
		s, _ = strings.CutPrefix(s, "//")
		s = strings.TrimSpace(s)
		m, ok := strings.CutPrefix(s, ConfigPrefix)
		if !ok {
			continue
		}
		if pi := strings.Index(m, ":"); pi > -1 { // e.g., "ecbaesconfig-prop: ..."
			t = append(t, configTag{Command: strings.TrimSpace(m[:pi]), Body: strings.TrimSpace(m[pi+1:])})
		} else { // e.g., "ecbaesconfig-doc-only"
			trimmed := strings.TrimSpace(m)
			t = append(t, configTag{Command: trimmed, Body: trimmed})
		}
	}
	return t, len(t) > 0
}

// Split "description | default value".
func splitPropBody(body string) (desc string, defVal string) {
	i := strings.Index(body, "|")
	if i < 0 {
		return strings.TrimSpace(body), ""
	}
	return strings.TrimSpace(body[:i]), strings.TrimSpace(body[i+1:])
}

func walkDir(root string, suffix string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, suffix) && !strings.HasSuffix(name, "_test.go") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errs.WrapErrf(err, "failed to walk dir %v", root)
	}
	return files, nil
}

func parseFiles(files []string) ([]ConfigSection, error) {
	configs := map[string][]ConfigDecl{}
	order := []string{}

	for _, p := range files {
		df, err := decorator.ParseFile(token.NewFileSet(), p, nil, parser.ParseComments)
		if err != nil {
			return nil, errs.WrapErrf(err, "failed to parse %v", p)
		}
		logger.Debugf("Parsing %v", p)

		var section string
		dstutil.Apply(df,
			func(c *dstutil.Cursor) bool {
				section = parseConfigDecl(c, p, section, func(sec string, cd ConfigDecl) {
					if _, ok := configs[sec]; !ok {
						order = append(order, sec)
					}
					configs[sec] = append(configs[sec], cd)
				})
				return true
			},
			nil,
		)
	}

	sections := make([]ConfigSection, 0, len(order))
	for _, name := range order {
		sections = append(sections, ConfigSection{Name: name, Configs: configs[name]})
	}
	isPrioritised := func(n string) bool {
		return strings.Contains(n, "Common") || strings.Contains(n, "General")
	}
	sort.SliceStable(sections, func(i, j int) bool {
		pi, pj := isPrioritised(sections[i].Name), isPrioritised(sections[j].Name)
		if pi != pj {
			return pi
		}
		return sections[i].Name < sections[j].Name
	})
	return sections, nil
}

func parseConfigDecl(cursor *dstutil.Cursor, src string, section string, add func(sec string, cd ConfigDecl)) string {
	switch n := cursor.Node().(type) {
	case *dst.GenDecl:
		tags, ok := parseConfigTags(n.Decs.Start)
		if !ok {
			return section
		}
		for _, t := range tags {
			if t.Command == tagSection {
				section = t.Body
			}
		}
	case *dst.ValueSpec:
		tags, ok := parseConfigTags(n.Decs.Start)
		if !ok {
			return section
		}

		cd := ConfigDecl{Source: src}
		for _, name := range n.Names {
			cd.ConstName = name.Name
		}

		found := false
		for _, t := range tags {
			switch t.Command {
			case tagProp:
				found = true
				cd.Description, cd.DefaultValue = splitPropBody(t.Body)
			case tagDocOnly:
				cd.DocOnly = true
			}
		}
		if !found {
			return section
		}

		for _, v := range n.Values {
			if bl, ok := v.(*dst.BasicLit); ok && bl.Kind == token.STRING {
				if uq, err := strconv.Unquote(bl.Value); err == nil {
					cd.Name = uq
				}
			}
		}
		if cd.Name == "" {
			return section
		}
		sec := section
		if sec == "" {
			sec = "General"
		}
		logger.Debugf("Found prop %v (%v) in %v", cd.Name, sec, src)
		add(sec, cd)
	}
	return section
}

func renderConfigTable(sections []ConfigSection) string {
	sb := strings.Builder{}
	for _, sec := range sections {
		if len(sec.Configs) < 1 {
			continue
		}
		nameLen := len("property")
		descLen := len("description")
		valLen := len("default value")
		for _, c := range sec.Configs {
			nameLen = max(nameLen, len(c.Name))
			descLen = max(descLen, len(c.Description))
			valLen = max(valLen, len(c.DefaultValue))
		}

		row := func(n, d, v string) {
			fmt.Fprintf(&sb, "| %-*s | %-*s | %-*s |\n", nameLen, n, descLen, d, valLen, v)
		}
		fmt.Fprintf(&sb, "\n## %v\n\n", sec.Name)
		row("property", "description", "default value")
		row(strings.Repeat("-", nameLen), strings.Repeat("-", descLen), strings.Repeat("-", valLen))
		for _, c := range sec.Configs {
			row(c.Name, c.Description, c.DefaultValue)
		}
	}
	return sb.String()
}

func writeConfigTable(path string, table string) error {
	out := "# Configurations\n" + table

	content, err := os.ReadFile(path)
	if err == nil {
		if v, ok := embed(string(content), table, ConfigTableEmbedStart, ConfigTableEmbedEnd); ok {
			out = v
		}
	} else if !os.IsNotExist(err) {
		return errs.WrapErrf(err, "failed to read %v", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.WrapErrf(err, "failed to create dir for %v", path)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return errs.WrapErrf(err, "failed to write %v", path)
	}
	return nil
}

func groupBySource(sections []ConfigSection) map[string][]ConfigDecl {
	m := map[string][]ConfigDecl{}
	for _, s := range sections {
		for _, c := range s.Configs {
			m[c.Source] = append(m[c.Source], c)
		}
	}
	return m
}

// Go literal for the default value.
func defaultLiteral(dv string) string {
	lower := strings.ToLower(dv)
	if lower == "true" || lower == "false" || digits.MatchString(dv) {
		return dv
	}
	if codeBlock.MatchString(dv) {
		return codeBlock.FindStringSubmatch(dv)[1]
	}
	if strings.HasPrefix(dv, `"`) && strings.HasSuffix(dv, `"`) && len(dv) > 1 {
		return dv
	}
	return strconv.Quote(dv)
}

func renderDefaults(decls []ConfigDecl) string {
	b := strings.Builder{}
	b.WriteString("func init() {")
	for _, c := range decls {
		if c.DefaultValue == "" || c.DocOnly {
			continue
		}
		fmt.Fprintf(&b, "\n\tSetDefProp(%v, %v)", c.ConstName, defaultLiteral(c.DefaultValue))
	}
	b.WriteString("\n}")
	return b.String()
}

func writeDefaults(src string, decls []ConfigDecl) (bool, error) {
	buf, err := os.ReadFile(src)
	if err != nil {
		return false, errs.WrapErrf(err, "failed to read %v", src)
	}
	v, ok := embed(string(buf), renderDefaults(decls), ConfigDefaultEmbedStart, ConfigDefaultEmbedEnd)
	if !ok {
		return false, nil
	}
	if err := os.WriteFile(src, []byte(v), 0o644); err != nil {
		return false, errs.WrapErrf(err, "failed to write %v", src)
	}
	return true, nil
}

// Replace lines between the start and end marker lines.
func embed(contents string, embedded string, start string, end string) (string, bool) {
	startOffset, endOffset := -1, -1
	lines := strings.Split(contents, "\n")
	for i, l := range lines {
		switch strings.TrimSpace(l) {
		case start:
			startOffset = i
		case end:
			endOffset = i
		}
	}
	if startOffset < 0 || endOffset < startOffset {
		return "", false
	}
	before := strings.Join(lines[:startOffset+1], "\n")
	after := strings.Join(lines[endOffset:], "\n")
	return before + "\n" + embedded + "\n\n" + after, true
}
