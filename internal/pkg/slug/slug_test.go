package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Produce", "produce"},
		{"Fresh Fruits", "fresh-fruits"},
		{"Dairy & Eggs", "dairy-eggs"},
		{"  Tinned / Jarred  ", "tinned-jarred"},
		{"Café au Lait!", "caf-au-lait"},
		{"---", ""},
		{"Ready_To_Eat", "ready-to-eat"},
		{"100% Juice", "100-juice"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Make(c.in), "input %q", c.in)
	}
}
