package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordType(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		want    Type
		wantErr error
	}{
		{name: "submission", rec: Record{"type": "submission"}, want: Submission},
		{name: "comment", rec: Record{"type": "comment"}, want: Comment},
		{name: "unknown value is returned as is", rec: Record{"type": "redditor"}, want: Type("redditor")},
		{name: "missing", rec: Record{"title": "x"}, wantErr: ErrMissingType},
		{name: "empty string", rec: Record{"type": ""}, wantErr: ErrInvalidType},
		{name: "not a string", rec: Record{"type": 3.0}, wantErr: ErrInvalidType},
		{name: "nil", rec: Record{"type": nil}, wantErr: ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rec.Type()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeTitle(t *testing.T) {
	assert.Equal(t, "Submission", Submission.Title())
	assert.Equal(t, "Comment", Comment.Title())
	assert.Equal(t, "Redditor", Type("REDDITOR").Title())
	assert.Equal(t, "", Type("").Title())
	assert.True(t, Comment.Known())
	assert.False(t, Type("redditor").Known())
}

func TestRecordParent(t *testing.T) {
	parent := map[string]any{"title": "Post"}

	assert.Equal(t, parent, Record{"submission": parent}.Parent())
	assert.Equal(t, map[string]any{"title": "Nested"}, Record{"submission": Record{"title": "Nested"}}.Parent())
	assert.Nil(t, Record{"type": "comment"}.Parent())
	assert.Nil(t, Record{"submission": "t3_abc"}.Parent())
}

func TestFromMapNormalizesNestedKeys(t *testing.T) {
	rec := FromMap(map[string]any{
		"type": "comment",
		"submission": map[any]any{
			"title": "Post",
			1:       "one",
		},
	})

	parent := rec.Parent()
	require.NotNil(t, parent)
	assert.Equal(t, "Post", parent["title"])
	assert.Equal(t, "one", parent["1"])
}

func TestFieldListsAreCopies(t *testing.T) {
	fields := SubmissionFields()
	require.Len(t, fields, 15)
	fields[0] = "mutated"
	assert.Equal(t, "author", SubmissionFields()[0])

	assert.Len(t, CommentFields(), 11)
	assert.Len(t, ParentSubmissionFields(), 7)
	assert.Equal(t, CommentFields(), FieldsFor(Comment))
	assert.Nil(t, FieldsFor(Type("redditor")))
}
