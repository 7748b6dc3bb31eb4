package editbuffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idreview/internal/domain"
	"idreview/internal/editbuffer"
)

func sampleDocument() *domain.Document {
	return &domain.Document{
		ID:               1,
		OriginalFilename: "passport.png",
		DocumentType:     domain.DocumentTypePassport,
		Features: domain.Features{
			"full_name":     domain.StrPtr("Jane Doe"),
			"date_of_birth": nil,
			"country":       domain.StrPtr(""),
		},
	}
}

func TestLoad_FreshBufferIsNotDirty(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	assert.False(t, editbuffer.IsDirty(doc, buf))
	assert.Equal(t, []string{"country", "date_of_birth", "full_name"}, buf.Keys())
}

func TestLoad_DeepCopiesFeatures(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	require.True(t, buf.Set("full_name", "John Roe"))

	assert.Equal(t, "Jane Doe", *doc.Features["full_name"])
	assert.Equal(t, "John Roe", buf.Display("full_name"))
}

func TestLoad_NilDocument(t *testing.T) {
	buf := editbuffer.Load(nil)

	require.NotNil(t, buf)
	assert.Empty(t, buf.Keys())
}

func TestSet_NotFoundSentinelStoresNil(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	for key := range doc.Features {
		require.True(t, buf.Set(key, domain.NotFoundDisplay))

		v, ok := buf.Value(key)
		assert.True(t, ok)
		assert.Nil(t, v, key)
		assert.Equal(t, domain.NotFoundDisplay, buf.Display(key))
	}
}

func TestSet_EmptyStringIsKept(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	require.True(t, buf.Set("date_of_birth", ""))

	v, _ := buf.Value("date_of_birth")
	require.NotNil(t, v)
	assert.Equal(t, "", *v)
	assert.True(t, editbuffer.IsDirty(doc, buf))
}

func TestSet_NilBufferIsNoop(t *testing.T) {
	var buf *editbuffer.Buffer

	assert.NotPanics(t, func() {
		assert.False(t, buf.Set("full_name", "x"))
	})
	assert.Equal(t, domain.NotFoundDisplay, buf.Display("full_name"))
	assert.Nil(t, buf.Features())
}

func TestSet_UnknownKeyRejected(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	assert.False(t, buf.Set("middle_name", "Q"))
	assert.NotContains(t, buf.Keys(), "middle_name")
	assert.False(t, editbuffer.IsDirty(doc, buf))
}

func TestIsDirty_Idempotent(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)
	buf.Set("date_of_birth", "1990-01-01")

	first := editbuffer.IsDirty(doc, buf)
	second := editbuffer.IsDirty(doc, buf)

	assert.True(t, first)
	assert.Equal(t, first, second)
}

func TestIsDirty_RevertingEditIsClean(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	buf.Set("full_name", "Someone Else")
	assert.True(t, editbuffer.IsDirty(doc, buf))

	buf.Set("full_name", "Jane Doe")
	assert.False(t, editbuffer.IsDirty(doc, buf))
}

func TestIsDirty_SentinelTextEqualsNil(t *testing.T) {
	doc := sampleDocument()
	doc.Features["date_of_birth"] = domain.StrPtr(domain.NotFoundDisplay)
	buf := editbuffer.Load(doc)

	buf.Set("date_of_birth", domain.NotFoundDisplay)

	assert.False(t, editbuffer.IsDirty(doc, buf))
}

func TestIsDirty_NilInputs(t *testing.T) {
	doc := sampleDocument()

	assert.False(t, editbuffer.IsDirty(nil, editbuffer.Load(doc)))
	assert.False(t, editbuffer.IsDirty(doc, nil))
}

func TestFeatures_ReturnsCopy(t *testing.T) {
	doc := sampleDocument()
	buf := editbuffer.Load(doc)

	out := buf.Features()
	*out["full_name"] = "mutated"

	assert.Equal(t, "Jane Doe", buf.Display("full_name"))
}
