package diagram

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	SnapToPadding           = 6.0  // pixels
	HitTargetPadding        = 6.0  // pixels
	DuplicateLinkOffset     = 16.0 // pixels between parallel duplicate links
	DefaultNodeRadius       = 26.0
	DefaultFontSize         = 20.0
	DefaultTextOffset       = 5.0
	DefaultLinkLabelRelDist = 0.5
	SelfLinkSnapAngle       = 0.1 // radians
	MaxVersions             = 30
	CaretBlinkPeriod        = 500 * time.Millisecond
)

var validate = validator.New()

// Params are the UI parameters an author attaches to the question. Zero
// values mean "use the default".
type Params struct {
	NodeRadius float64 `json:"noderadius,omitempty" yaml:"noderadius,omitempty" validate:"gte=0,lte=500"`
	FontSize   float64 `json:"fontsize,omitempty" yaml:"fontsize,omitempty" validate:"gte=0,lte=200"`
	TextOffset float64 `json:"textoffset,omitempty" yaml:"textoffset,omitempty" validate:"gte=-100,lte=100"`

	// IsFSM enables start links and accept states. Defaults to true.
	IsFSM *bool `json:"isfsm,omitempty" yaml:"isfsm,omitempty"`
	// IsDirected draws arrow heads. Defaults to true.
	IsDirected *bool `json:"isdirected,omitempty" yaml:"isdirected,omitempty"`

	LockNodePositions bool `json:"locknodepositions,omitempty" yaml:"locknodepositions,omitempty"`
	LockEdgePositions bool `json:"lockedgepositions,omitempty" yaml:"lockedgepositions,omitempty"`
	LockNodeSet       bool `json:"locknodeset,omitempty" yaml:"locknodeset,omitempty"`
	LockEdgeSet       bool `json:"lockedgeset,omitempty" yaml:"lockedgeset,omitempty"`
	LockNodeLabels    bool `json:"locknodelabels,omitempty" yaml:"locknodelabels,omitempty"`
	LockEdgeLabels    bool `json:"lockedgelabels,omitempty" yaml:"lockedgelabels,omitempty"`

	// Legacy names for LockNodePositions and LockEdgePositions.
	LockNodes *bool `json:"locknodes,omitempty" yaml:"locknodes,omitempty"`
	LockEdges *bool `json:"lockedges,omitempty" yaml:"lockedges,omitempty"`

	HelpMenuText string `json:"helpmenutext,omitempty" yaml:"helpmenutext,omitempty"`
}

// ParseParams decodes the JSON parameter blob supplied by the host. An empty
// blob yields the defaults.
func ParseParams(data string) (Params, error) {
	var p Params
	if strings.TrimSpace(data) == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return p, nil
}

// Validate checks the numeric parameters are in range.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// normalized folds the legacy lock names into their current equivalents.
func (p Params) normalized() Params {
	if p.LockNodes != nil {
		p.LockNodePositions = *p.LockNodes
	}
	if p.LockEdges != nil {
		p.LockEdgePositions = *p.LockEdges
	}
	return p
}

func (p Params) nodeRadius() float64 {
	if p.NodeRadius > 0 {
		return p.NodeRadius
	}
	return DefaultNodeRadius
}

func (p Params) fontSize() float64 {
	if p.FontSize > 0 {
		return p.FontSize
	}
	return DefaultFontSize
}

func (p Params) textOffset() float64 {
	if p.TextOffset != 0 {
		return p.TextOffset
	}
	return DefaultTextOffset
}

func (p Params) isFSM() bool {
	return p.IsFSM == nil || *p.IsFSM
}

func (p Params) isDirected() bool {
	return p.IsDirected == nil || *p.IsDirected
}

// Style returns the drawing metrics implied by p.
func (p Params) Style() Style {
	return Style{
		NodeRadius: p.nodeRadius(),
		FontSize:   p.fontSize(),
		TextOffset: p.textOffset(),
		Directed:   p.isDirected(),
	}
}

// Style holds the metrics every element of a diagram is drawn with.
type Style struct {
	NodeRadius float64
	FontSize   float64
	TextOffset float64
	Directed   bool
}

// DefaultStyle is the style of a widget constructed with empty Params.
func DefaultStyle() Style {
	return Params{}.Style()
}
