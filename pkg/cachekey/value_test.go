package cachekey_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stvn101/carbonintelligence/pkg/cachekey"
)

// Building the same params in shuffled insertion orders must always produce the
// same canonical forms and hash.
func TestCanonicalForms_InsertionOrder(t *testing.T) {
	t.Parallel()

	names := make([]string, 30)
	for i := range names {
		names[i] = fmt.Sprintf("p%02d", i)
	}

	build := func(order []string) cachekey.Params {
		p := make(cachekey.Params, len(order))
		for _, name := range order {
			p[name] = cachekey.Object{
				"name":  cachekey.String(name),
				"inner": cachekey.Object{"z": cachekey.Int(1), "a": cachekey.Int(2)},
			}
		}
		return p
	}

	base := build(names)
	wantQuery := cachekey.Query(base)
	wantJSON := cachekey.JSON(base)

	rng := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]string(nil), names...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		p := build(shuffled)
		assert.Equal(t, wantQuery, cachekey.Query(p))
		assert.Equal(t, wantJSON, cachekey.JSON(p))
		assert.Equal(t, cachekey.Hash(wantJSON), cachekey.Hash(cachekey.JSON(p)))
	}
}
