package models

// Mode values
const (
	ModeWeek  = "week"
	ModeEvent = "event"
)

// Settings is the single settings document of an installation.
type Settings struct {
	Title          string     `json:"title"`
	HeaderColor    string     `json:"headerColor"`
	SecondaryColor string     `json:"secondaryColor"`
	StartHour      int        `json:"startHour"`
	EndHour        int        `json:"endHour"`
	BookingColors  []Category `json:"bookingColors"`
	HiddenDays     []int      `json:"hiddenDays"`
	HideEmptyDays  bool       `json:"hideEmptyDays"`
	LoginHash      int32      `json:"loginhash"`
	Mode           string     `json:"mode"`
	EventStartDate string     `json:"eventStartDate,omitempty"`
	EventDayCount  int        `json:"eventDayCount,omitempty"`
	ICSTokens      []ICSToken `json:"icsTokens"`
	ICSPublic      bool       `json:"icsPublic"`
	ICSDayFilter   bool       `json:"icsDayFilter"`
}

// IsEventMode reports whether the schedule spans concrete dates.
func (s *Settings) IsEventMode() bool {
	return s.Mode == ModeEvent
}

// CategoryByID looks up a category. The second result is false for dangling ids.
func (s *Settings) CategoryByID(id string) (Category, bool) {
	for _, c := range s.BookingColors {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ActiveToken returns the newest subscription token, or "" when none exists.
func (s *Settings) ActiveToken() string {
	if len(s.ICSTokens) == 0 {
		return ""
	}
	return s.ICSTokens[len(s.ICSTokens)-1].Token
}

// ICSToken is one entry of the append-only subscription token history.
type ICSToken struct {
	Token   string `json:"token"`
	Created string `json:"created"`
}
