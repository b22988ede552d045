package notify

import (
	"errors"
	"fmt"

	"github.com/terry001-s/socialgraph/internal/models"
)

// ErrUnknownKind is returned for a kind name outside the wire vocabulary
var ErrUnknownKind = errors.New("unknown notification kind")

var kindNames = map[int16]string{
	models.KindLike:    "like",
	models.KindComment: "comment",
	models.KindFollow:  "follow",
	models.KindMention: "mention",
	models.KindPost:    "post",
}

var kindValues = map[string]int16{
	"like":    models.KindLike,
	"comment": models.KindComment,
	"follow":  models.KindFollow,
	"mention": models.KindMention,
	"post":    models.KindPost,
}

// KindName returns the wire name of a notification kind
func KindName(kind int16) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire name to its notification kind constant
func ParseKind(name string) (int16, error) {
	if kind, ok := kindValues[name]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
