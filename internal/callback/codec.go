package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

const (
	// MaxLength is the front-end's limit on button payloads, in bytes.
	MaxLength = 64
	// MaxIndex bounds direction and stop indices.
	MaxIndex = 999999

	separator = "_"

	favoritesToken   = "back_to_fav_list"
	favoriteAckToken = "dummy_in_favorites"
)

// ErrInvalidToken is wrapped by every decode failure.
var ErrInvalidToken = errors.New("invalid navigation token")

// DecodeError describes why a token was rejected.
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid navigation token %q: %s", e.Token, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidToken
}

// Encode renders t in its wire form. It does not validate; see Validate.
func Encode(t Token) string {
	switch t := t.(type) {
	case ListToken:
		return join("back", "to", string(t.Class), "list")
	case DirectionsToken:
		return join(string(t.Class), t.Number)
	case StopsToken:
		return join("route", string(t.Class), t.Number, strconv.Itoa(t.Route))
	case ScheduleToken:
		return join("stop", stopFields(t.StopRef), string(t.Day))
	case ToggleToken:
		return join("toggle", "day", stopFields(t.StopRef), string(t.Day), flag(t.FromFavorites))
	case FavoriteShowToken:
		return join("fav", stopFields(t.StopRef))
	case FavoriteAddToken:
		return join("favadd", stopFields(t.StopRef))
	case FavoriteDeleteToken:
		return join("favdel", stopFields(t.StopRef))
	case FavoritesToken:
		return favoritesToken
	case FavoriteAckToken:
		return favoriteAckToken
	}
	return ""
}

// Decode parses a wire token. It is pure: indices are only checked for shape,
// never against a schedule.
func Decode(s string) (Token, error) {
	t, reason := parse(s)
	if reason != "" {
		return nil, &DecodeError{Token: s, Reason: reason}
	}
	if err := Validate(t); err != nil {
		return nil, &DecodeError{Token: s, Reason: err.Error()}
	}
	return t, nil
}

// Validate reports whether t can be encoded and decoded back unchanged.
func Validate(t Token) error {
	var err error
	switch t := t.(type) {
	case ListToken:
		err = validateClass(t.Class)
	case DirectionsToken:
		err = validateVehicle(t.Class, t.Number)
	case StopsToken:
		err = validateVehicle(t.Class, t.Number)
		if err == nil {
			err = validateIndex("route", t.Route)
		}
	case ScheduleToken:
		err = validateStopRef(t.StopRef)
		if err == nil {
			_, err = models.ParseDayType(string(t.Day))
		}
	case ToggleToken:
		err = validateStopRef(t.StopRef)
		if err == nil {
			_, err = models.ParseDayType(string(t.Day))
		}
	case FavoriteShowToken:
		err = validateStopRef(t.StopRef)
	case FavoriteAddToken:
		err = validateStopRef(t.StopRef)
	case FavoriteDeleteToken:
		err = validateStopRef(t.StopRef)
	case FavoritesToken, FavoriteAckToken:
	case nil:
		err = errors.New("nil token")
	default:
		err = fmt.Errorf("unsupported token type %T", t)
	}
	if err != nil {
		return err
	}

	if n := len(Encode(t)); n > MaxLength {
		return fmt.Errorf("encoded token is %d bytes (max %d)", n, MaxLength)
	}
	return nil
}

func parse(s string) (Token, string) {
	if s == "" {
		return nil, "empty token"
	}
	if len(s) > MaxLength {
		return nil, fmt.Sprintf("token longer than %d bytes", MaxLength)
	}

	parts := strings.Split(s, separator)
	arity := func(n int) string {
		if len(parts) != n {
			return fmt.Sprintf("%s token needs %d fields, got %d", parts[0], n, len(parts))
		}
		return ""
	}

	switch parts[0] {
	case "back":
		if s == favoritesToken {
			return FavoritesToken{}, ""
		}
		if reason := arity(4); reason != "" {
			return nil, reason
		}
		if parts[1] != "to" || parts[3] != "list" {
			return nil, "malformed back token"
		}
		return ListToken{Class: models.VehicleClass(parts[2])}, ""

	case "dummy":
		if s != favoriteAckToken {
			return nil, "malformed acknowledgement token"
		}
		return FavoriteAckToken{}, ""

	case "route":
		if reason := arity(4); reason != "" {
			return nil, reason
		}
		route, reason := parseIndex(parts[3])
		if reason != "" {
			return nil, reason
		}
		return StopsToken{Class: models.VehicleClass(parts[1]), Number: parts[2], Route: route}, ""

	case "stop":
		if reason := arity(6); reason != "" {
			return nil, reason
		}
		ref, reason := parseStopRef(parts[1:5])
		if reason != "" {
			return nil, reason
		}
		return ScheduleToken{StopRef: ref, Day: models.DayType(parts[5])}, ""

	case "toggle":
		if reason := arity(8); reason != "" {
			return nil, reason
		}
		if parts[1] != "day" {
			return nil, "malformed toggle token"
		}
		ref, reason := parseStopRef(parts[2:6])
		if reason != "" {
			return nil, reason
		}
		fromFavorites, reason := parseFlag(parts[7])
		if reason != "" {
			return nil, reason
		}
		return ToggleToken{StopRef: ref, Day: models.DayType(parts[6]), FromFavorites: fromFavorites}, ""

	case "fav", "favadd", "favdel":
		if reason := arity(5); reason != "" {
			return nil, reason
		}
		ref, reason := parseStopRef(parts[1:5])
		if reason != "" {
			return nil, reason
		}
		switch parts[0] {
		case "fav":
			return FavoriteShowToken{StopRef: ref}, ""
		case "favadd":
			return FavoriteAddToken{StopRef: ref}, ""
		default:
			return FavoriteDeleteToken{StopRef: ref}, ""
		}

	case string(models.Bus), string(models.Trolleybus):
		if reason := arity(2); reason != "" {
			return nil, reason
		}
		return DirectionsToken{Class: models.VehicleClass(parts[0]), Number: parts[1]}, ""
	}

	return nil, fmt.Sprintf("unknown token prefix %q", parts[0])
}

// parseStopRef reads class, number, route and stop fields in that order.
func parseStopRef(fields []string) (StopRef, string) {
	route, reason := parseIndex(fields[2])
	if reason != "" {
		return StopRef{}, reason
	}
	stop, reason := parseIndex(fields[3])
	if reason != "" {
		return StopRef{}, reason
	}
	return StopRef{
		Class:  models.VehicleClass(fields[0]),
		Number: fields[1],
		Route:  route,
		Stop:   stop,
	}, ""
}

// parseIndex accepts plain ASCII digits only, so "+1", "-0" and " 1" are rejected.
func parseIndex(s string) (int, string) {
	if s == "" || len(s) > len(strconv.Itoa(MaxIndex)) {
		return 0, fmt.Sprintf("index %q out of range", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Sprintf("index %q is not a non-negative integer", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Sprintf("index %q is not a non-negative integer", s)
	}
	return n, ""
}

func parseFlag(s string) (bool, string) {
	switch s {
	case "0":
		return false, ""
	case "1":
		return true, ""
	}
	return false, fmt.Sprintf("flag %q must be 0 or 1", s)
}

func validateClass(class models.VehicleClass) error {
	_, err := models.ParseVehicleClass(string(class))
	return err
}

func validateVehicle(class models.VehicleClass, number string) error {
	if err := validateClass(class); err != nil {
		return err
	}
	return utils.ValidateVehicleNumber(number)
}

func validateStopRef(ref StopRef) error {
	if err := validateVehicle(ref.Class, ref.Number); err != nil {
		return err
	}
	if err := validateIndex("route", ref.Route); err != nil {
		return err
	}
	return validateIndex("stop", ref.Stop)
}

func validateIndex(name string, n int) error {
	if n < 0 || n > MaxIndex {
		return fmt.Errorf("%s index %d out of range", name, n)
	}
	return nil
}

func stopFields(ref StopRef) string {
	return join(string(ref.Class), ref.Number, strconv.Itoa(ref.Route), strconv.Itoa(ref.Stop))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func join(fields ...string) string {
	return strings.Join(fields, separator)
}
