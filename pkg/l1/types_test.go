package l1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCarRef(t *testing.T) {
	testCases := []struct {
		name  string
		ref   CarRef
		valid bool
	}{
		{name: "reference/abc", ref: CarRef{Type: "reference", ID: "abc"}, valid: true},
		{name: "reference/", ref: CarRef{Type: "reference"}},
		{name: "a/b/c"},
		{name: "a/+", ref: CarRef{Type: "a", ID: "+"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, ok := ParseCarRef(tc.name)
			require.Equal(t, tc.valid, ok)
			require.Equal(t, tc.ref, ref)
			if ok {
				require.Equal(t, tc.name, ref.Name())
			}
		})
	}
}
