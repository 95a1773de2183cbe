package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillpress/blog-api/internal/core/domain"
)

func TestFieldFromMessage(t *testing.T) {
	cases := map[string]string{
		`E11000 duplicate key error collection: blog.users index: email_1 dup key: { email: "a@b.c" }`:     "email",
		`E11000 duplicate key error collection: blog.users index: username_1 dup key: { "username": "x" }`: "username",
		`E11000 duplicate key error collection: blog.posts index: slug_1`:                                  "slug",
		`something else entirely`: "",
	}
	for msg, want := range cases {
		if got := fieldFromMessage(msg); got != want {
			t.Errorf("fieldFromMessage(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestFieldFromKeyPattern(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "code", Value: 11000},
		{Key: "keyPattern", Value: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := fieldFromKeyPattern(raw); got != "name" {
		t.Fatalf("expected name, got %q", got)
	}
	if got := fieldFromKeyPattern(nil); got != "" {
		t.Fatalf("expected empty for nil raw, got %q", got)
	}
}

func TestTranslate(t *testing.T) {
	notFound := domain.NotFound("Post not found")

	if err := translate(nil, "op", notFound); err != nil {
		t.Fatalf("nil must stay nil, got %v", err)
	}
	if err := translate(mongo.ErrNoDocuments, "find", notFound); err != notFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := translate(domain.ErrForbidden, "find", notFound); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("domain errors must pass through, got %v", err)
	}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: blog.users index: email_1 dup key: { email: "a@b.c" }`,
	}}}
	err := translate(dup, "insert user", notFound)
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindDuplicateKey || de.Field != "email" {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	cause := errors.New("socket closed")
	err = translate(cause, "find post", notFound)
	if !errors.Is(err, cause) || err.Error() != "find post: socket closed" {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestObjectID(t *testing.T) {
	if _, err := objectID("not-hex"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("malformed id must read as not found, got %v", err)
	}
	if _, err := objectID("65f1c0ffee65f1c0ffee65f1"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
}
