package json

import (
	"bytes"
	"testing"
)

type report struct {
	Engine     string
	Ciphertext []string
	KeyHex     string `json:"key"`
	Secret     string `json:"-"`
}

func TestWriteJson(t *testing.T) {
	b, err := WriteJson(report{Engine: "portable", Ciphertext: []string{"00ff"}, KeyHex: "ab", Secret: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if s := string(b); s != `{"engine":"portable","ciphertext":["00ff"],"key":"ab"}` {
		t.Fatal(s)
	}
}

func TestParseJson(t *testing.T) {
	var r report
	if err := SParseJson(`{"engine":"accelerated","key":"cd","ciphertext":["11"]}`, &r); err != nil {
		t.Fatal(err)
	}
	if r.Engine != "accelerated" || r.KeyHex != "cd" || len(r.Ciphertext) != 1 {
		t.Fatalf("%+v", r)
	}

	if err := SParseJson(`{"engine":`, &r); err == nil {
		t.Fatal("should fail")
	}
}

func TestEncodeJsonIndent(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := EncodeJsonIndent(buf, report{Engine: "portable"}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"engine\": \"portable\",\n  \"ciphertext\": null,\n  \"key\": \"\"\n}\n"
	if buf.String() != want {
		t.Fatalf("%q", buf.String())
	}

	s, err := SWriteIndent(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if s != "{\n  \"a\": 1\n}" {
		t.Fatalf("%q", s)
	}
}

func TestLowercaseNamingStrategy(t *testing.T) {
	if s := LowercaseNamingStrategy("Engine"); s != "engine" {
		t.Fatal(s)
	}
	if s := LowercaseNamingStrategy(""); s != "" {
		t.Fatal(s)
	}
}
