package config

import (
	"testing"
	"time"
)

func TestDefaultReadConfig(t *testing.T) {
	t.Setenv("ECBAES_LOG_DIR", "/tmp/logs")

	a := NewAppConfig()
	a.DefaultReadConfig([]string{"configFile=testdata/conf_test.yml", "ecb.parallel.workers=2"})

	if s := a.GetPropStr(PropAppName); s != "ecbaes-test" {
		t.Fatal(s)
	}
	if s := a.GetPropStr(PropCipherEngine); s != "portable" {
		t.Fatal(s)
	}
	if s := a.GetPropStr(PropLoggingLevel); s != "debug" {
		t.Fatal(s)
	}

	// cli args take precedence over the file
	if i := a.GetPropInt(PropEcbParallelWorkers); i != 2 {
		t.Fatal(i)
	}

	// loaded from the extra file
	if i := a.GetPropInt(PropEcbParallelMinBlocks); i != 64 {
		t.Fatal(i)
	}
	if s := a.GetPropStr(PropLoggingRollingFile); s != "/tmp/logs/ecbaes.log" {
		t.Fatal(s)
	}

	// untouched defaults
	if i := a.GetPropInt(PropLoggingRollingFileMaxBackups); i != 10 {
		t.Fatal(i)
	}
}

func TestDefaultReadConfigMissingFile(t *testing.T) {
	a := NewAppConfig()
	a.DefaultReadConfig([]string{"configFile=testdata/nope.yml"})
	if s := a.GetPropStr(PropCipherEngine); s != "auto" {
		t.Fatal(s)
	}
	if i := a.GetPropInt(PropEcbParallelMinBlocks); i != 1024 {
		t.Fatal(i)
	}
}

func TestLoadConfigFromStr(t *testing.T) {
	a := NewAppConfig()
	err := a.LoadConfigFromStr(`
ecb:
  parallel:
    workers: 8
    min-blocks: "abc"
cipher:
  engine: accelerated
feature:
  enabled: "true"
`)
	if err != nil {
		t.Fatal(err)
	}
	if i := a.GetPropInt(PropEcbParallelWorkers); i != 8 {
		t.Fatal(i)
	}
	if i := a.GetPropInt(PropEcbParallelMinBlocks); i != 0 {
		t.Fatal(i)
	}
	if !a.GetPropBool("feature.enabled") {
		t.Fatal("feature.enabled should be true")
	}
	if a.HasProp("feature.missing") {
		t.Fatal("feature.missing should not exist")
	}
	if d := a.GetPropDur(PropEcbParallelWorkers, time.Second); d != 8*time.Second {
		t.Fatal(d)
	}

	if err := a.LoadConfigFromStr("cipher: [engine"); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}

func TestResolveArg(t *testing.T) {
	t.Setenv("ECBAES_ENGINE", "portable")

	a := NewAppConfig()
	a.SetProp("app.suffix", "demo")
	if s := a.ResolveArg("${ECBAES_ENGINE}"); s != "portable" {
		t.Fatal(s)
	}
	if s := a.ResolveArg("ecbaes-${app.suffix}"); s != "ecbaes-demo" {
		t.Fatal(s)
	}
	if s := a.ResolveArg("${not.there}"); s != "${not.there}" {
		t.Fatal(s)
	}
}

func TestArgKeyVal(t *testing.T) {
	m := ArgKeyVal([]string{"a=1", "b = 2", "a=3", "-json"})
	if len(m) != 2 {
		t.Fatal(m)
	}
	if v := m["a"]; len(v) != 2 || v[0] != "1" || v[1] != "3" {
		t.Fatal(v)
	}
	if v := m["b"]; len(v) != 1 || v[0] != "2" {
		t.Fatal(v)
	}
}

func TestGuessConfigFilePath(t *testing.T) {
	if p := GuessConfigFilePath([]string{"-json"}); p != "conf.yml" {
		t.Fatal(p)
	}
	if p := GuessConfigFilePath([]string{"configFile=/etc/ecbaes.yml"}); p != "/etc/ecbaes.yml" {
		t.Fatal(p)
	}
}

func TestGlobalDefaults(t *testing.T) {
	if s := GetPropStr(PropAppName); s != "ecbaes" {
		t.Fatal(s)
	}
	SetDefProp("test.default", 7)
	if i := GetPropInt("test.default"); i != 7 {
		t.Fatal(i)
	}
	if i := NewAppConfig().GetPropInt("test.default"); i != 7 {
		t.Fatal(i)
	}
}
