package mongo

import (
	"errors"
	"regexp"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quillpress/blog-api/internal/core/domain"
)

var (
	dupKeyFieldRe = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)
	dupIndexRe    = regexp.MustCompile(`index: ([A-Za-z0-9_.]+?)_-?1\b`)
)

// objectID parses a hex id. A malformed id is reported as not found, the
// same as a well-formed id that matches nothing.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.InvalidID(id)
	}
	return oid, nil
}

// translate maps driver errors to domain errors. notFound is returned for
// mongo.ErrNoDocuments; everything unrecognised is wrapped with a stack.
func translate(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.DuplicateKey(duplicateField(err), err)
	}
	return pkgerrors.Wrap(err, op)
}

// duplicateField extracts the offending field from a duplicate key error,
// preferring the structured keyPattern the server attaches to write errors.
func duplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if f := fieldFromKeyPattern(e.Raw); f != "" {
				return f
			}
			if f := fieldFromMessage(e.Message); f != "" {
				return f
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if f := fieldFromMessage(ce.Message); f != "" {
			return f
		}
	}
	if f := fieldFromMessage(err.Error()); f != "" {
		return f
	}
	return "value"
}

func fieldFromKeyPattern(raw bson.Raw) string {
	if len(raw) == 0 {
		return ""
	}
	v, err := raw.LookupErr("keyPattern")
	if err != nil {
		return ""
	}
	doc, ok := v.DocumentOK()
	if !ok {
		return ""
	}
	elems, err := doc.Elements()
	if err != nil || len(elems) == 0 {
		return ""
	}
	return elems[0].Key()
}

func fieldFromMessage(msg string) string {
	if m := dupKeyFieldRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if m := dupIndexRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}
