package remind

// InstanceKey identifies one logical occurrence of a series. OriginalKey is
// the date string the occurrence would carry under pure rule expansion,
// before any edit; it never changes once assigned, and all override-table
// reads and writes use it. The pair is carried as structured data, never
// encoded into a composite string.
type InstanceKey struct {
	SeriesID    string `json:"seriesId"`
	OriginalKey string `json:"originalKey"`
}

// RawOccurrence is one rule-generated occurrence before override resolution.
// Date always equals Key.OriginalKey; EndDate re-applies the series' day
// span to this occurrence.
type RawOccurrence struct {
	Key     InstanceKey `json:"key"`
	Date    string      `json:"date"`
	EndDate string      `json:"endDate,omitempty"`
	Time    string      `json:"time,omitempty"`
	EndTime string      `json:"endTime,omitempty"`
}

// InstanceKind tags how an instance entered the result set. Consumers switch
// on it exhaustively instead of probing optional fields.
type InstanceKind int

const (
	// KindSingle is a one-shot reminder surfaced next to expanded series.
	KindSingle InstanceKind = iota
	// KindRecurring is a rule-generated occurrence of a recurring series.
	KindRecurring
	// KindEdited is an occurrence synthesized from an override entry whose
	// edited date placed it in the query window even though rule expansion
	// would not have scheduled it there.
	KindEdited
)

func (k InstanceKind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindRecurring:
		return "recurring"
	case KindEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// Instance is the fully resolved, displayable view of one occurrence. It is
// derived on every query and never persisted as a whole object.
type Instance struct {
	Key         InstanceKey  `json:"key"`
	Kind        InstanceKind `json:"kind"`
	Date        string       `json:"date"`
	EndDate     string       `json:"endDate,omitempty"`
	Time        string       `json:"time,omitempty"`
	EndTime     string       `json:"endTime,omitempty"`
	Title       string       `json:"title"`
	Note        string       `json:"note,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Completed   bool         `json:"completed"`
	CompletedAt string       `json:"completedAt,omitempty"`
	Notified    bool         `json:"notified,omitempty"`
}
