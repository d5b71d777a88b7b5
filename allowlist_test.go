package scriptgate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList(t *testing.T) {
	a := NewAllowList("script.py", "report.py")

	assert.True(t, a.Allowed("script.py"))
	assert.True(t, a.Allowed("report.py"))
	assert.False(t, a.Allowed("Script.py"))
	assert.False(t, a.Allowed("./script.py"))
	assert.False(t, a.Allowed("script.py "))
	assert.False(t, a.Allowed(""))
	assert.Equal(t, []string{"report.py", "script.py"}, a.Names())
	assert.Equal(t, 2, a.Len())
}

func TestEmptyAllowListDeniesEverything(t *testing.T) {
	for _, a := range []*AllowList{NewAllowList(), nil} {
		assert.False(t, a.Allowed("script.py"))
		assert.False(t, a.Allowed(""))
		assert.Equal(t, 0, a.Len())
	}
}

func TestRequestScriptName(t *testing.T) {
	cases := []struct {
		body string
		name string
		ok   bool
	}{
		{`{"script": "script.py"}`, "script.py", true},
		{`{"script": ""}`, "", true},
		{`{"script": null}`, "", false},
		{`{}`, "", false},
		{`{"script": 1}`, "", false},
		{`{"script": {"name": "script.py"}}`, "", false},
		{`{"script": true}`, "", false},
	}
	for _, c := range cases {
		var req Request
		if !assert.NoError(t, json.Unmarshal([]byte(c.body), &req), c.body) {
			continue
		}
		name, ok := req.ScriptName()
		assert.Equal(t, c.name, name, c.body)
		assert.Equal(t, c.ok, ok, c.body)
	}

	name, ok := NewRequest("a \"quoted\" name").ScriptName()
	assert.True(t, ok)
	assert.Equal(t, "a \"quoted\" name", name)
}

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(" \n{\"script\": \"script.py\"}\n"))
	assert.NoError(t, err)
	name, ok := req.ScriptName()
	assert.True(t, ok)
	assert.Equal(t, "script.py", name)

	for _, body := range []string{
		``,
		`   `,
		`null`,
		`"script.py"`,
		`["script.py"]`,
		`{"script": "script.py"} trailing`,
		`{"script": "script.py"}{}`,
		`{"script": `,
	} {
		_, err := DecodeRequest([]byte(body))
		assert.Error(t, err, body)
	}
}
