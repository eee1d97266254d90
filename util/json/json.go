package json

import (
	"io"
	"strings"
	"unicode"

	"github.com/curtisnewbie/ecbaes/errs"
	jsoniter "github.com/json-iterator/go"
)

var (
	config                  = jsoniter.Config{EscapeHTML: true}.Froze()
	NamingStrategyTranslate = LowercaseNamingStrategy
)

func init() {
	config.RegisterExtension(&namingStrategyExtension{jsoniter.DummyExtension{}})
}

// Parse json bytes.
func ParseJson(body []byte, ptr any) error {
	return config.Unmarshal(body, ptr)
}

// Parse json string.
func SParseJson(body string, ptr any) error {
	err := ParseJson([]byte(body), ptr)
	if err != nil {
		return errs.WrapErrf(err, "body '%v'", body)
	}
	return nil
}

// Write json as bytes.
func WriteJson(body any) ([]byte, error) {
	return config.Marshal(body)
}

func SWriteIndent(body any) (string, error) {
	buf, err := config.MarshalIndent(body, "", "  ")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Encode json, indented with two spaces.
func EncodeJsonIndent(writer io.Writer, body any) error {
	enc := config.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

// Change first rune to lower case.
func LowercaseNamingStrategy(name string) string {
	ru := []rune(name)
	if len(ru) < 1 {
		return name
	}
	ru[0] = unicode.ToLower(ru[0])
	return string(ru)
}

// Fields without an explicit json name are renamed with NamingStrategyTranslate.
type namingStrategyExtension struct {
	jsoniter.DummyExtension
}

func (extension *namingStrategyExtension) UpdateStructDescriptor(structDescriptor *jsoniter.StructDescriptor) {
	for _, binding := range structDescriptor.Fields {
		if unicode.IsLower(rune(binding.Field.Name()[0])) || binding.Field.Name()[0] == '_' {
			continue
		}
		tag, hastag := binding.Field.Tag().Lookup("json")
		if hastag {
			tagParts := strings.Split(tag, ",")
			if tagParts[0] == "-" {
				continue // hidden field
			}
			if tagParts[0] != "" {
				continue // field explicitly named
			}
		}
		binding.ToNames = []string{NamingStrategyTranslate(binding.Field.Name())}
		binding.FromNames = []string{NamingStrategyTranslate(binding.Field.Name())}
	}
}
