package registry

const (
	catGeneral      = "General"
	catBasic        = "Basic Dimensions"
	catFingerboard  = "Fingerboard Dimensions"
	catConstruction = "Construction"
	catViol         = "Viol Construction"
	catDisplay      = "Display Options"

	outGeometry     = "Geometry"
	outViolGeometry = "Viol Geometry"
	outInternal     = "Internal"
)

var (
	bowedFamilies   = OneOf(string(FamilyViolin), string(FamilyViol))
	frettedFamilies = OneOf(string(FamilyViol), string(FamilyGuitarMandolin))
	guitarOnly      = Is(string(FamilyGuitarMandolin))
	violOnly        = Is(string(FamilyViol))
)

func number(key Key, label, unit string, def, min, max, step float64, category, desc string) ParameterDefinition {
	return ParameterDefinition{
		Key: key, Type: TypeNumber, Label: label, Unit: unit, Description: desc,
		Default: def, Min: min, Max: max, HasMin: true, HasMax: true, Step: step,
		Category: category, Role: RoleInput,
	}
}

func output(key Key, label, unit string, decimals int, visible bool, category string, order int, desc string) ParameterDefinition {
	return ParameterDefinition{
		Key: key, Type: TypeNumber, Label: label, Unit: unit, Description: desc,
		Role:   RoleOutput,
		Output: &OutputFormat{Decimals: decimals, Visible: visible, Category: category, Order: order},
	}
}

func internal(key Key, label, unit string, decimals, order int) ParameterDefinition {
	return output(key, label, unit, decimals, false, outInternal, order, label+" (drawing geometry)")
}

func when(d ParameterDefinition, key Key, m Match) ParameterDefinition {
	if d.VisibleWhen == nil {
		d.VisibleWhen = map[Key]Match{}
	}
	d.VisibleWhen[key] = m
	return d
}

func calculatedIn(d ParameterDefinition, out map[Family]bool, format OutputFormat) ParameterDefinition {
	d.Role = RoleConditional
	d.IsOutput = out
	d.Output = &format
	return d
}

// Builtin returns the stringed-instrument parameter table.
func Builtin() []ParameterDefinition {
	return []ParameterDefinition{
		{
			Key: InstrumentFamily, Type: TypeEnum, Label: "Instrument Family",
			Description: "Determines the calculation approach for neck and body dimensions",
			Default:     string(FamilyViolin),
			Options: []Option{
				{Value: string(FamilyViolin), Label: "Violin Family (Body Stop Driven)"},
				{Value: string(FamilyViol), Label: "Viol Family (Body Stop Driven)"},
				{Value: string(FamilyGuitarMandolin), Label: "Guitar/Mandolin Family (Fret Join Driven)"},
			},
			Category: catGeneral, Role: RoleInput,
		},
		{
			Key: InstrumentName, Type: TypeString, Label: "Instrument Name",
			Description: "Name of this instrument, used in titles and filenames",
			Default:     "My Instrument", MaxLength: 50,
			Category: catGeneral, Role: RoleInput,
		},
		number(VSL, "Vibrating String Length", "mm", 325, 10, 1000, 0.5, catBasic,
			"Playing length from nut to bridge along the string"),
		calculatedIn(
			number(BodyStop, "Body Stop", "mm", 195, 10, 500, 0.1, catBasic,
				"Length from where the neck meets the body to the bridge"),
			map[Family]bool{FamilyViolin: false, FamilyViol: false, FamilyGuitarMandolin: true},
			OutputFormat{Decimals: 1, Visible: true, Category: outGeometry, Order: 4},
		),
		calculatedIn(
			number(NeckStop, "Neck Stop", "mm", 130, 10, 500, 0.1, catBasic,
				"Horizontal distance from the body join to the nut"),
			map[Family]bool{FamilyViolin: true, FamilyViol: true, FamilyGuitarMandolin: true},
			OutputFormat{Decimals: 1, Visible: true, Category: outGeometry, Order: 3},
		),
		when(number(FretJoin, "Fret at Body Join", "fret #", 12, 1, 24, 1, catBasic,
			"Which fret sits at the neck/body junction"), InstrumentFamily, guitarOnly),
		when(number(NoFrets, "Number of Frets", "", 7, 0, 30, 1, catConstruction,
			"Number of frets to calculate positions for"), InstrumentFamily, frettedFamilies),
		number(BodyLength, "Body Length", "mm", 355, 10, 1000, 1, catBasic,
			"Length of the body from the join to the saddle"),
		number(RibHeight, "Rib Height", "mm", 30, 10, 500, 0.5, catBasic,
			"Rib height, assumed constant"),
		number(FingerboardLength, "Fingerboard Length", "mm", 270, 20, 1000, 1, catBasic,
			"Length of the fingerboard from the nut"),
		number(ArchingHeight, "Arching Height", "mm", 15, 0, 100, 0.1, catBasic,
			"Height of the arching from the top of the ribs at the bridge"),
		number(BellyEdgeThickness, "Belly Edge Thickness", "mm", 3.5, 0, 10, 0.1, catBasic,
			"Thickness of the top plate at the edge"),
		number(BridgeHeight, "Bridge Height", "mm", 33, 0, 100, 0.1, catBasic,
			"Height of the bridge above the arching"),
		number(Overstand, "Overstand", "mm", 12, 0, 100, 0.1, catBasic,
			"Height of the fingerboard above the ribs at the neck join"),
		number(TailpieceHeight, "Tailpiece Height", "mm", 0, 0, 50, 0.1, catBasic,
			"Height of the string attachment above the belly at the end of the body"),
		number(FingerboardRadius, "Fingerboard Radius", "mm", 41, 20, 1000, 1, catBasic,
			"Radius of the fingerboard curvature; violin 41, viol 60-80, guitar 300"),
		number(FBVisibleHeightAtNut, "Fingerboard visible height at nut", "mm", 4, 0, 100, 0.1, catBasic,
			"Height of the flat visible side of the fingerboard at the nut"),
		number(FBVisibleHeightAtJoin, "Fingerboard visible height at body join", "mm", 6, 0, 100, 0.1, catBasic,
			"Height of the flat visible side of the fingerboard at the body join"),
		number(StringHeightNut, "String height at nut", "mm", 0.6, 0, 10, 0.1, catBasic,
			"String height above the fingerboard at the nut"),
		when(number(StringHeightEOF, "String height at end of fb", "mm", 4, 0, 10, 0.1, catBasic,
			"String height at the end of the fingerboard"), InstrumentFamily, bowedFamilies),
		when(number(StringHeight12thFret, "String height at 12th fret", "mm", 4, 0, 10, 0.1, catBasic,
			"String height at the 12th fret"), InstrumentFamily, guitarOnly),
		number(FingerboardWidthAtNut, "Width at Nut", "mm", 24, 10, 100, 0.1, catFingerboard,
			"Width of the fingerboard at the nut"),
		number(FingerboardWidthAtEnd, "Fingerboard width at end", "mm", 30, 10, 100, 0.1, catFingerboard,
			"Width of the fingerboard at its bridge end"),
		{
			Key: ShowMeasurements, Type: TypeBoolean, Label: "Show Measurements",
			Description: "Display dimension annotations", Default: true,
			Category: catDisplay, Role: RoleInput,
		},
		when(number(BreakAngle, "Break Angle", "°", 15, 0, 45, 0.5, catViol,
			"Angle at which the back breaks"), InstrumentFamily, violOnly),
		when(number(TopBlockHeight, "Top Block Height", "mm", 40, 10, 150, 1, catViol,
			"Height of the top block where the neck joins the body"), InstrumentFamily, violOnly),

		output(NeckAngle, "Neck Angle", "°", 1, true, outGeometry, 1,
			"Angle of the neck relative to the body, measured from horizontal"),
		output(StringLength, "String Length", "mm", 1, false, outGeometry, 2,
			"Straight-line length from nut to bridge"),
		output(StringAngleToRibs, "String Angle to Ribs", "°", 1, true, outGeometry, 5,
			"Angle of the string relative to the rib line"),
		output(NutRelativeToRibs, "Nut Relative to Ribs", "mm", 1, true, outGeometry, 6,
			"Vertical distance from the rib plane to the top of the nut"),
		output(StringAngleToFingerboard, "String Angle to Fingerboard", "°", 2, false, outGeometry, 7,
			"Angle of the string relative to the fingerboard surface"),
		output(AfterlengthAngle, "Afterlength Angle", "°", 1, false, outGeometry, 8,
			"Angle of the string behind the bridge relative to the rib line"),
		output(StringBreakAngle, "String Break Angle", "°", 1, true, outGeometry, 9,
			"Angle the string makes over the bridge"),
		output(SagittaAtNut, "Sagitta at Nut", "mm", 2, false, outInternal, 20,
			"Height of the fingerboard arc at the nut"),
		output(SagittaAtJoin, "Sagitta at Join", "mm", 2, false, outInternal, 21,
			"Height of the fingerboard arc at the body join"),
		output(FBThicknessAtNut, "Total FB Thickness at Nut", "mm", 1, true, outGeometry, 22,
			"Visible height plus sagitta at the nut"),
		output(FBThicknessAtJoin, "Total FB Thickness at Join", "mm", 1, true, outGeometry, 23,
			"Visible height plus sagitta at the body join"),
		when(output(BackBreakLength, "Back Break Length", "mm", 1, true, outViolGeometry, 50,
			"Length of the back from the top block to the break"), InstrumentFamily, violOnly),

		internal(NeckAngleRad, "Neck Angle (rad)", "rad", 4, 100),
		internal(NeckEndX, "Neck End X", "mm", 2, 101),
		internal(NeckEndY, "Neck End Y", "mm", 2, 102),
		internal(NutDrawRadius, "Nut Draw Radius", "mm", 2, 103),
		internal(NeckLineAngle, "Neck Line Angle", "rad", 4, 104),
		internal(NutTopX, "Nut Top X", "mm", 2, 105),
		internal(NutTopY, "Nut Top Y", "mm", 2, 106),
		internal(BridgeTopX, "Bridge Top X", "mm", 2, 107),
		internal(BridgeTopY, "Bridge Top Y", "mm", 2, 108),
		internal(FBBottomEndX, "FB Bottom End X", "mm", 2, 109),
		internal(FBBottomEndY, "FB Bottom End Y", "mm", 2, 110),
		internal(FBDirectionAngle, "FB Direction Angle", "rad", 4, 111),
		internal(FBThicknessAtEnd, "FB Thickness at End", "mm", 2, 112),
		internal(FBSurfacePointX, "FB Surface Point X", "mm", 2, 113),
		internal(FBSurfacePointY, "FB Surface Point Y", "mm", 2, 114),
		internal(StringXAtFBEnd, "String X at FB End", "mm", 2, 115),
		internal(StringYAtFBEnd, "String Y at FB End", "mm", 2, 116),
		internal(StringHeightAtFBEnd, "String Height at FB End", "mm", 2, 117),
		internal(NutPerpendicularIntersectionX, "Nut Perpendicular Intersection X", "mm", 2, 118),
		internal(NutPerpendicularIntersectionY, "Nut Perpendicular Intersection Y", "mm", 2, 119),
		internal(NutToPerpendicularDistance, "Nut to Perpendicular Distance", "mm", 2, 120),
	}
}
