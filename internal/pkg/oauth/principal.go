package oauth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// AttrUserID is the principal attribute carrying the reconciled user's id.
const AttrUserID = "id"

var ErrMissingPrincipalAttribute = errors.New("authenticated principal has no user id attribute")

// Principal is the result of a completed login: the provider's raw attributes
// plus the id of the reconciled user and its granted role.
type Principal struct {
	Attributes map[string]any
	Role       string
}

// UserID extracts the reconciled user id from the principal's attributes.
func (p *Principal) UserID() (uint, error) {
	if p == nil || p.Attributes == nil {
		return 0, ErrMissingPrincipalAttribute
	}
	raw, ok := p.Attributes[AttrUserID]
	if !ok || raw == nil {
		return 0, ErrMissingPrincipalAttribute
	}

	var id uint64
	switch v := raw.(type) {
	case uint:
		id = uint64(v)
	case uint64:
		id = v
	case int:
		if v > 0 {
			id = uint64(v)
		}
	case int64:
		if v > 0 {
			id = uint64(v)
		}
	case float64:
		if v > 0 && v == math.Trunc(v) {
			id = uint64(v)
		}
	case string:
		id, _ = strconv.ParseUint(v, 10, 0)
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: unusable value %v", ErrMissingPrincipalAttribute, raw)
	}
	return uint(id), nil
}
