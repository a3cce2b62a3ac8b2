package registry

// SectionKind tells layouts whether a section holds inputs or outputs.
type SectionKind string

const (
	SectionInputBasic     SectionKind = "input_basic"
	SectionInputAdvanced  SectionKind = "input_advanced"
	SectionOutputCore     SectionKind = "output_core"
	SectionOutputDetailed SectionKind = "output_detailed"
)

// Section is a collapsible group of parameters in the section layout.
type Section struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Kind            SectionKind `json:"type"`
	DefaultExpanded bool        `json:"default_expanded"`
	Order           int         `json:"order"`
	Parameters      []Key       `json:"parameter_names"`
	Description     string      `json:"description"`
}

// IsOutput reports whether the section lists calculated values.
func (s Section) IsOutput() bool {
	return s.Kind == SectionOutputCore || s.Kind == SectionOutputDetailed
}

// KeyMeasurement is a headline value shown above the form. ByFamily swaps
// the key for families where another parameter carries the same meaning.
type KeyMeasurement struct {
	Key      Key
	Primary  bool
	ByFamily map[Family]Key
}

// KeyFor returns the key to display for family.
func (m KeyMeasurement) KeyFor(f Family) Key {
	if k, ok := m.ByFamily[f]; ok {
		return k
	}
	return m.Key
}

func BuiltinSections() []Section {
	return []Section{
		{
			ID: "identity", Title: "Instrument Identity", Kind: SectionInputBasic,
			DefaultExpanded: true, Order: 1,
			Parameters:  []Key{InstrumentName, InstrumentFamily, VSL},
			Description: "What you're building and at what scale",
		},
		{
			ID: "body_and_bridge", Title: "Body & Bridge", Kind: SectionInputBasic,
			DefaultExpanded: true, Order: 2,
			Parameters:  []Key{BodyLength, Overstand, BridgeHeight, ArchingHeight, BodyStop, FretJoin},
			Description: "Core side-view geometry. For guitars fret_join sets where the neck meets the body",
		},
		{
			ID: "string_action", Title: "String Action", Kind: SectionInputBasic,
			DefaultExpanded: true, Order: 3,
			Parameters:  []Key{StringHeightNut, StringHeightEOF, StringHeight12thFret},
			Description: "String height at key points; the neck angle is calculated from these",
		},
		{
			ID: "viol_specific", Title: "Viol Geometry", Kind: SectionInputAdvanced,
			Order:       4,
			Parameters:  []Key{BreakAngle, TopBlockHeight},
			Description: "Back break angle and top block height",
		},
		{
			ID: "fingerboard", Title: "Fingerboard", Kind: SectionInputAdvanced,
			Order: 5,
			Parameters: []Key{
				FingerboardLength, FingerboardRadius, FingerboardWidthAtNut,
				FingerboardWidthAtEnd, FBVisibleHeightAtNut, FBVisibleHeightAtJoin,
			},
			Description: "Length, curvature, width and visible heights",
		},
		{
			ID: "frets", Title: "Frets", Kind: SectionInputAdvanced,
			Order:       6,
			Parameters:  []Key{NoFrets},
			Description: "Number of frets to calculate",
		},
		{
			ID: "advanced_geometry", Title: "Advanced Geometry", Kind: SectionInputAdvanced,
			Order:       7,
			Parameters:  []Key{RibHeight, BellyEdgeThickness, TailpieceHeight},
			Description: "Fine-tuning; the neck angle is always calculated",
		},
		{
			ID: "display", Title: "Display Options", Kind: SectionInputAdvanced,
			Order:       8,
			Parameters:  []Key{ShowMeasurements},
			Description: "Annotation settings",
		},
		{
			ID: "core_outputs", Title: "Core Measurements", Kind: SectionOutputCore,
			DefaultExpanded: true, Order: 9,
			Parameters: []Key{
				NeckAngle, NeckStop, BodyStop, NutRelativeToRibs, StringBreakAngle,
				FBThicknessAtNut, FBThicknessAtJoin, BackBreakLength,
			},
			Description: "Primary calculated values",
		},
		{
			ID: "detailed_outputs", Title: "Detailed Calculations", Kind: SectionOutputDetailed,
			Order: 10,
			Parameters: []Key{
				SagittaAtNut, SagittaAtJoin, StringAngleToRibs, StringAngleToFingerboard,
				AfterlengthAngle, StringLength, NeckEndX, NeckEndY, NutDrawRadius,
				NutTopX, NutTopY, BridgeTopX, BridgeTopY, FBBottomEndX, FBBottomEndY,
				FBThicknessAtEnd, NutPerpendicularIntersectionX, NutPerpendicularIntersectionY,
				NutToPerpendicularDistance, StringXAtFBEnd, StringYAtFBEnd,
				FBSurfacePointX, FBSurfacePointY, StringHeightAtFBEnd,
			},
			Description: "Internal geometry for advanced users",
		},
	}
}

func BuiltinKeyMeasurements() []KeyMeasurement {
	return []KeyMeasurement{
		{Key: NeckAngle, Primary: true},
		{Key: NeckStop, ByFamily: map[Family]Key{FamilyGuitarMandolin: BodyStop}},
		{Key: NutRelativeToRibs},
		{Key: StringBreakAngle},
	}
}
