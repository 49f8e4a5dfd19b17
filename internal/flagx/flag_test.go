package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-k", "anon", "-x", "1"},
			allowed: []string{"-a", "-k"},
			want:    []string{"-k", "anon"},
		},
		{
			name:    "equals form",
			args:    []string{"-a=https://demo.supabase.co", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a=https://demo.supabase.co"},
		},
		{
			name:    "order preserved across forms",
			args:    []string{"-config=first.json", "-c", "second.json"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=first.json", "-c", "second.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "-y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value kept",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next flag is not swallowed as value",
			args:    []string{"-t", "-v", "2"},
			allowed: []string{"-t", "-v"},
			want:    []string{"-t", "-v", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	assert.Equal(t, "conf.json", jsonConfigPath([]string{"-a", "x", "-c", "conf.json"}))
	assert.Equal(t, "long.json", jsonConfigPath([]string{"-config=long.json"}))
	assert.Equal(t, "", jsonConfigPath([]string{"-a", "x"}))
}

func TestJSONConfigPath_ReadsOsArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-c", "from-args.json"}
	assert.Equal(t, "from-args.json", JSONConfigPath())
}
