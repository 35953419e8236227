package envelope

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnvelopes(t *testing.T, secret string) map[string]*Envelope {
	t.Helper()
	envs := make(map[string]*Envelope)
	for _, name := range CipherNames() {
		env, err := New(secret, WithCipherName(name))
		require.NoError(t, err)
		envs[name] = env
	}
	return envs
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		[]byte("a"),
		[]byte("exactly sixteen!"),
		[]byte("How wonderful life is while you're in the world"),
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}
	random := make([]byte, 1000)
	_, err := rand.Read(random)
	require.NoError(t, err)
	inputs = append(inputs, random)

	for name, env := range newEnvelopes(t, "this_is_a_strong_secret_key_used_for_encryption") {
		for _, in := range inputs {
			sealed, err := env.Seal(in)
			require.NoError(t, err, name)
			assert.True(t, IsSealed(sealed), name)
			assert.Len(t, sealed, len(in)+env.Overhead(len(in)), name)

			out, err := env.Open(sealed)
			require.NoError(t, err, name)
			assert.NotNil(t, out, name)
			assert.Equal(t, in, out, name)
		}
	}
}

func TestSeal_NonDeterministic(t *testing.T) {
	plaintext := []byte("same input every time")
	for name, env := range newEnvelopes(t, "secret") {
		a, err := env.Seal(plaintext)
		require.NoError(t, err)
		b, err := env.Seal(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, a, b, name)

		for _, sealed := range [][]byte{a, b} {
			out, err := env.Open(sealed)
			require.NoError(t, err, name)
			assert.Equal(t, plaintext, out, name)
		}
	}
}

func TestOpen_FormatGate(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("SECUREVAUL"),
		[]byte("securevault" + "gAAAAA"),
		[]byte("hello world"),
		[]byte(" SECUREVAULT"),
	}
	for name, env := range newEnvelopes(t, "secret") {
		for _, in := range inputs {
			_, err := env.Open(in)
			assert.ErrorIs(t, err, ErrFormat, name)
		}
	}
	for _, in := range inputs {
		_, err := Open(in, DeriveKey("anything"))
		assert.ErrorIs(t, err, ErrFormat)
	}
}

func TestOpen_MarkerOnly(t *testing.T) {
	for name, env := range newEnvelopes(t, "secret") {
		_, err := env.Open([]byte(Magic))
		assert.ErrorIs(t, err, ErrAuthentication, name)
	}
}

func TestOpen_TamperDetection(t *testing.T) {
	plaintext := []byte("hello world")
	for name, env := range newEnvelopes(t, "secret") {
		sealed, err := env.Seal(plaintext)
		require.NoError(t, err)

		for i := len(Magic); i < len(sealed); i++ {
			for bit := 0; bit < 8; bit++ {
				tampered := bytes.Clone(sealed)
				tampered[i] ^= 1 << bit
				out, err := env.Open(tampered)
				if !assert.ErrorIs(t, err, ErrAuthentication, "%s: byte %d bit %d", name, i, bit) {
					return
				}
				assert.Nil(t, out)
			}
		}
	}
}

func TestOpen_Truncated(t *testing.T) {
	for name, env := range newEnvelopes(t, "secret") {
		sealed, err := env.Seal([]byte("some content to cut short"))
		require.NoError(t, err)
		for n := len(Magic); n < len(sealed); n++ {
			_, err := env.Open(sealed[:n])
			assert.ErrorIs(t, err, ErrAuthentication, "%s: length %d", name, n)
		}
	}
}

func TestOpen_WrongKey(t *testing.T) {
	right := newEnvelopes(t, "abc")
	wrong := newEnvelopes(t, "abd")
	for name, env := range right {
		sealed, err := env.Seal([]byte("payload"))
		require.NoError(t, err)
		_, err = wrong[name].Open(sealed)
		assert.ErrorIs(t, err, ErrAuthentication, name)
	}
}

func TestOpen_AcrossCiphers(t *testing.T) {
	envs := newEnvelopes(t, "secret")
	wrong := newEnvelopes(t, "other")
	for sealName, sealer := range envs {
		sealed, err := sealer.Seal([]byte("payload"))
		require.NoError(t, err)

		for openName, opener := range envs {
			out, err := opener.Open(sealed)
			require.NoError(t, err, "sealed with %s, opened with %s", sealName, openName)
			assert.Equal(t, "payload", string(out))

			_, err = wrong[openName].Open(sealed)
			assert.ErrorIs(t, err, ErrAuthentication, "sealed with %s, opened with %s", sealName, openName)
		}

		out, err := Open(sealed, DeriveKey("secret"))
		require.NoError(t, err, sealName)
		assert.Equal(t, "payload", string(out))
	}
}

func TestEmptyPlaintextScenario(t *testing.T) {
	key := DeriveKey("abc")
	sealed, err := Seal(nil, key)
	require.NoError(t, err)
	assert.Len(t, sealed, len(Magic)+100)
	assert.Equal(t, Magic, string(sealed[:len(Magic)]))

	out, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, out)

	_, err = Open(sealed, DeriveKey("abd"))
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestEmptyPlaintextOverheads(t *testing.T) {
	expected := map[string]int{
		"fernet":            100,
		"secretbox":         40,
		"xchacha20poly1305": 40,
		"aes-256-gcm":       28,
	}
	for name, env := range newEnvelopes(t, "abc") {
		sealed, err := env.Seal(nil)
		require.NoError(t, err)
		assert.Len(t, sealed, len(Magic)+expected[name], name)
	}
}

func TestNew_Options(t *testing.T) {
	env, err := New("secret")
	require.NoError(t, err)
	assert.Equal(t, DefaultCipher, env.CipherName())
	assert.Equal(t, DeriveKey("secret").Fingerprint(), env.Fingerprint())

	_, err = New("secret", WithCipherName("rot13"))
	assert.ErrorIs(t, err, ErrUnknownCipher)

	_, err = New("secret", WithCipher(nil))
	assert.ErrorIs(t, err, ErrUnknownCipher)

	key := DeriveKey("other")
	env, err = New("secret", withKey(key), WithCipher(&SecretBox{}))
	require.NoError(t, err)
	assert.Equal(t, "secretbox", env.CipherName())
	assert.Equal(t, key.Fingerprint(), env.Fingerprint())
}

func TestCipherByName_Default(t *testing.T) {
	c, err := CipherByName("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCipher, c.Name())
	assert.Equal(t, []string{"aes-256-gcm", "fernet", "secretbox", "xchacha20poly1305"}, CipherNames())
}

func TestSeal_RandFailure(t *testing.T) {
	empty := bytes.NewReader(nil)
	for _, c := range []Cipher{
		&Fernet{Rand: empty},
		&SecretBox{Rand: empty},
		&XChaCha20Poly1305{Rand: empty},
		&AESGCM{Rand: empty},
	} {
		env, err := New("secret", WithCipher(c))
		require.NoError(t, err)
		_, err = env.Seal([]byte("data"))
		assert.Error(t, err, c.Name())
	}
}

func TestEnvelope_Concurrent(t *testing.T) {
	env, err := New("secret")
	require.NoError(t, err)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			in := bytes.Repeat([]byte{byte(i)}, i*7)
			sealed, err := env.Seal(in)
			if err != nil {
				done <- err
				return
			}
			out, err := env.Open(sealed)
			if err == nil && !bytes.Equal(in, out) {
				err = ErrAuthentication
			}
			done <- err
		}(i)
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-done)
	}
}
