package record

import "slices"

// SubmissionPrefix labels parent-submission fields shown on a comment.
const SubmissionPrefix = "submission_"

var submissionFields = [...]string{
	"author",
	"created_utc",
	"distinguished",
	"edited",
	"id",
	"is_original_content",
	"is_self",
	"link_flair_text",
	"nsfw",
	"score",
	"selftext",
	"spoiler",
	"stickied",
	"title",
	"url",
}

var commentFields = [...]string{
	"author",
	"body",
	"created_utc",
	"distinguished",
	"edited",
	"id",
	"is_submitter",
	"link_id",
	"parent_id",
	"score",
	"stickied",
}

var parentSubmissionFields = [...]string{
	"created_utc",
	"nsfw",
	"num_comments",
	"score",
	"title",
	"upvote_ratio",
	"url",
}

// SubmissionFields returns the fields displayed for a submission.
func SubmissionFields() []string { return slices.Clone(submissionFields[:]) }

// CommentFields returns the fields displayed for a comment.
func CommentFields() []string { return slices.Clone(commentFields[:]) }

// ParentSubmissionFields returns the parent-submission fields displayed
// alongside a comment, labeled with SubmissionPrefix.
func ParentSubmissionFields() []string { return slices.Clone(parentSubmissionFields[:]) }

// FieldsFor returns the allow-list for t, or nil when t has none.
func FieldsFor(t Type) []string {
	switch t {
	case Submission:
		return SubmissionFields()
	case Comment:
		return CommentFields()
	default:
		return nil
	}
}
