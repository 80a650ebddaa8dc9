package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiStringFlagSet(t *testing.T) {
	f := MultiStringFlag{separator: ","}

	require.NoError(t, f.Set("/forbidden"))
	require.NoError(t, f.Set("/.git,/private"))
	require.ErrorIs(t, f.Set(""), errEmptyFlagValue)
	require.ErrorIs(t, f.Set("   "), errEmptyFlagValue)

	require.Equal(t, "/forbidden,/.git,/private", f.String())
}

func TestMultiStringFlagSplit(t *testing.T) {
	tests := map[string]struct {
		values    []string
		separator string
		want      []string
	}{
		"unset": {
			separator: ",",
		},
		"single_value": {
			values:    []string{"/forbidden"},
			separator: ",",
			want:      []string{"/forbidden"},
		},
		"values_in_one_occurrence": {
			values:    []string{"/a,/b"},
			separator: ",",
			want:      []string{"/a", "/b"},
		},
		"blank_items_dropped": {
			values:    []string{"/a,, ,/b", "/c"},
			separator: ",",
			want:      []string{"/a", "/b", "/c"},
		},
		"headers_keep_inner_commas": {
			values:    []string{"Cache-Control: no-cache, no-store;;X-Served-By: pages-cgi"},
			separator: ";;",
			want:      []string{"Cache-Control: no-cache, no-store", "X-Served-By: pages-cgi"},
		},
		"no_separator": {
			values: []string{"a,b"},
			want:   []string{"a,b"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := MultiStringFlag{values: tt.values, separator: tt.separator}

			require.Equal(t, tt.want, f.Split())
		})
	}
}
