package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infinitehoax/WikiContributionReport/pkg/identity"
)

func TestUserPageURL(t *testing.T) {
	t.Parallel()

	url := identity.UserPageURL("en.wikipedia.org", "ExampleUser")

	assert.Equal(t, "https://en.wikipedia.org/wiki/User:ExampleUser", url)
}

func TestUserPageURL_EscapesSpecialCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author string
		want   string
	}{
		{
			name:   "space",
			author: "Jimbo Wales",
			want:   "https://en.wikipedia.org/wiki/User:Jimbo%20Wales",
		},
		{
			name:   "slash",
			author: "a/b",
			want:   "https://en.wikipedia.org/wiki/User:a%2Fb",
		},
		{
			name:   "markup characters",
			author: "<script>",
			want:   "https://en.wikipedia.org/wiki/User:%3Cscript%3E",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, identity.UserPageURL("en.wikipedia.org", tt.author))
		})
	}
}
