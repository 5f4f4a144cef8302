package models

// ViewKind names the screen a navigation step renders.
type ViewKind string

const (
	ViewVehicleList ViewKind = "vehicle_list"
	ViewDirections  ViewKind = "directions"
	ViewStops       ViewKind = "stops"
	ViewSchedule    ViewKind = "schedule"
	ViewFavorites   ViewKind = "favorites"
)

// ButtonAction tells the front-end how to present a button. The token is what
// it sends back when the button is pressed.
type ButtonAction string

const (
	ActionSelect         ButtonAction = "select"
	ActionToggleDay      ButtonAction = "toggle_day"
	ActionFavoriteAdd    ButtonAction = "favorite_add"
	ActionFavoriteDelete ButtonAction = "favorite_delete"
	ActionFavoriteExists ButtonAction = "favorite_exists"
	ActionBack           ButtonAction = "back"
)

type Button struct {
	Action ButtonAction `json:"action"`
	Label  string       `json:"label,omitempty"`
	Class  VehicleClass `json:"class,omitempty"`
	Day    DayType      `json:"day,omitempty"`
	Token  string       `json:"token"`
}

type ScheduleDetails struct {
	Today         DayType          `json:"today"`
	FromFavorites bool             `json:"fromFavorites"`
	NoSchedule    bool             `json:"noSchedule"`
	Hours         []HourDepartures `json:"hours"`
	// Nearest is only filled when the rendered day-type is today's.
	Nearest      []string `json:"nearest"`
	NearestShown bool     `json:"nearestShown"`
}

// View is one rendered navigation state.
type View struct {
	Kind      ViewKind     `json:"kind"`
	Class     VehicleClass `json:"class,omitempty"`
	Day       DayType      `json:"day,omitempty"`
	Number    string       `json:"number,omitempty"`
	RouteName string       `json:"routeName,omitempty"`
	Direction string       `json:"direction,omitempty"`
	Stop      string       `json:"stop,omitempty"`

	NoRoutes          bool `json:"noRoutes,omitempty"`
	OppositeHasRoutes bool `json:"oppositeHasRoutes,omitempty"`
	Empty             bool `json:"empty,omitempty"`

	Schedule *ScheduleDetails `json:"schedule,omitempty"`
	Buttons  []Button         `json:"buttons"`
}

type NoticeKind string

const (
	NoticeInvalidToken    NoticeKind = "invalid_token"
	NoticeNotFound        NoticeKind = "not_found"
	NoticeUnavailable     NoticeKind = "unavailable"
	NoticeFavoriteAdded   NoticeKind = "favorite_added"
	NoticeFavoriteRemoved NoticeKind = "favorite_removed"
	NoticeAlreadyFavorite NoticeKind = "already_favorite"
	NoticeAlreadyRemoved  NoticeKind = "already_removed"
	NoticeActionFailed    NoticeKind = "action_failed"
)

// Notice is a transient message shown next to (or instead of) a view change.
type Notice struct {
	Kind  NoticeKind `json:"kind"`
	Text  string     `json:"text"`
	Alert bool       `json:"alert"`
}

// ActionResult is what the front-end receives for one inbound token.
// Either field may be nil; a nil View means the current screen stays.
type ActionResult struct {
	View   *View   `json:"view,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}
