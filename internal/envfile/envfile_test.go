package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `
# deploy secrets
SITEPUB_DEPLOY_USERNAME=deployer
export SITEPUB_DEPLOY_PASSWORD="p@ss \"word\""
SITEPUB_DEPLOY_KEY='RSA:abc#def'   # inline key
PLAIN=value # trailing comment
EMPTY=
`
	env, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SITEPUB_DEPLOY_USERNAME": "deployer",
		"SITEPUB_DEPLOY_PASSWORD": `p@ss "word"`,
		"SITEPUB_DEPLOY_KEY":      "RSA:abc#def",
		"PLAIN":                   "value",
		"EMPTY":                   "",
	}, env)
}

func TestParseEmpty(t *testing.T) {
	env, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestParseLaterAssignmentWins(t *testing.T) {
	env, err := Parse("A=1\nA=2\n")
	require.NoError(t, err)
	assert.Equal(t, "2", env["A"])
}

func TestParseEscapes(t *testing.T) {
	env, err := Parse(`A="line1\nline2\\"`)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\\", env["A"])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing equals", "JUSTAKEY", "line 1: expected KEY=VALUE"},
		{"empty key", "=value", "expected KEY=VALUE"},
		{"unterminated double", "A=\"open", "unterminated quoted value"},
		{"unterminated single", "A='open", "unterminated quoted value"},
		{"trailing content", "A=\"x\" y", "unexpected content after quoted value"},
		{"second line", "A=1\nbroken", "line 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFilterPrefix(t *testing.T) {
	got := FilterPrefix(map[string]string{"SITEPUB_A": "1", "OTHER": "2"}, "SITEPUB_")
	assert.Equal(t, map[string]string{"SITEPUB_A": "1"}, got)
}
