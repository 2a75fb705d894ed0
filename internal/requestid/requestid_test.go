package requestid

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate_Format(t *testing.T) {
	id := Generate("Jane.Doe99@x.com", "sbt-grvl", now)

	assert.Regexp(t, regexp.MustCompile(`^tp-sbt-grvl-jane-doe99-[0-9a-z]+$`), id)
	assert.Equal(t, "tp-sbt-grvl-jane-doe99-"+strconv.FormatInt(now.UnixMilli(), 36), id)
}

func TestGenerate_Truncation(t *testing.T) {
	id := Generate("first.middle.lastname@example.com", "unbound-gravel-200", now)

	ts := strconv.FormatInt(now.UnixMilli(), 36)
	assert.Equal(t, "tp-unbound-gr-first-middle-la-"+ts, id)
}

func TestGenerate_DefaultRace(t *testing.T) {
	id := Generate("sam@example.com", "  ", now)
	assert.Regexp(t, `^tp-custom-sam-`, id)
}

func TestGenerate_TimestampIsBase36Millis(t *testing.T) {
	id := Generate("sam@example.com", "mid-south", now)
	ts := id[len("tp-mid-south-sam-"):]

	ms, err := strconv.ParseInt(ts, 36, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ms)
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "jane-doe-tag", LocalPart("Jane.Doe+Tag@example.com"))
	assert.Equal(t, "r-ne", LocalPart("Rêne@example.com"))
	assert.Equal(t, "nobody", LocalPart("nobody"))
}
