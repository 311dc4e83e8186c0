package yaencoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaencoding"
)

type sample struct {
	ID   int
	Name string
	Tags []string
}

func TestMessagePackEncoding_Flow(t *testing.T) {
	t.Run("Full Round Trip", func(t *testing.T) {
		in := sample{ID: 7, Name: "RZK", Tags: []string{"a", "b"}}

		raw, err := yaencoding.EncodeMessagePack(in)
		require.Nil(t, err)

		out, err := yaencoding.DecodeMessagePack[sample](raw)
		require.Nil(t, err)
		require.NotNil(t, out)

		assert.Equal(t, in, *out)
	})

	t.Run("Invalid Data Returns Error", func(t *testing.T) {
		out, err := yaencoding.DecodeMessagePack[sample]([]byte{0xc1})
		require.Nil(t, out)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal message pack")
	})

	t.Run("Unsupported Value Returns Error", func(t *testing.T) {
		_, err := yaencoding.EncodeMessagePack(make(chan int))
		require.NotNil(t, err)
	})
}
