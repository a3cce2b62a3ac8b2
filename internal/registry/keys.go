package registry

// Input parameters.
const (
	InstrumentFamily      Key = "instrument_family"
	InstrumentName        Key = "instrument_name"
	VSL                   Key = "vsl"
	BodyStop              Key = "body_stop"
	NeckStop              Key = "neck_stop"
	FretJoin              Key = "fret_join"
	NoFrets               Key = "no_frets"
	BodyLength            Key = "body_length"
	RibHeight             Key = "rib_height"
	FingerboardLength     Key = "fingerboard_length"
	ArchingHeight         Key = "arching_height"
	BellyEdgeThickness    Key = "belly_edge_thickness"
	BridgeHeight          Key = "bridge_height"
	Overstand             Key = "overstand"
	TailpieceHeight       Key = "tailpiece_height"
	FingerboardRadius     Key = "fingerboard_radius"
	FBVisibleHeightAtNut  Key = "fb_visible_height_at_nut"
	FBVisibleHeightAtJoin Key = "fb_visible_height_at_join"
	StringHeightNut       Key = "string_height_nut"
	StringHeightEOF       Key = "string_height_eof"
	StringHeight12thFret  Key = "string_height_12th_fret"
	FingerboardWidthAtNut Key = "fingerboard_width_at_nut"
	FingerboardWidthAtEnd Key = "fingerboard_width_at_end"
	ShowMeasurements      Key = "show_measurements"
	BreakAngle            Key = "break_angle"
	TopBlockHeight        Key = "top_block_height"
)

// Calculated parameters.
const (
	NeckAngle                Key = "neck_angle"
	StringLength             Key = "string_length"
	StringAngleToRibs        Key = "string_angle_to_ribs"
	StringAngleToFingerboard Key = "string_angle_to_fingerboard"
	NutRelativeToRibs        Key = "nut_relative_to_ribs"
	AfterlengthAngle         Key = "afterlength_angle"
	StringBreakAngle         Key = "string_break_angle"
	BackBreakLength          Key = "back_break_length"
	SagittaAtNut             Key = "sagitta_at_nut"
	SagittaAtJoin            Key = "sagitta_at_join"
	FBThicknessAtNut         Key = "fb_thickness_at_nut"
	FBThicknessAtJoin        Key = "fb_thickness_at_join"

	NeckAngleRad                  Key = "neck_angle_rad"
	NeckEndX                      Key = "neck_end_x"
	NeckEndY                      Key = "neck_end_y"
	NutDrawRadius                 Key = "nut_draw_radius"
	NeckLineAngle                 Key = "neck_line_angle"
	NutTopX                       Key = "nut_top_x"
	NutTopY                       Key = "nut_top_y"
	BridgeTopX                    Key = "bridge_top_x"
	BridgeTopY                    Key = "bridge_top_y"
	FBBottomEndX                  Key = "fb_bottom_end_x"
	FBBottomEndY                  Key = "fb_bottom_end_y"
	FBDirectionAngle              Key = "fb_direction_angle"
	FBThicknessAtEnd              Key = "fb_thickness_at_end"
	FBSurfacePointX               Key = "fb_surface_point_x"
	FBSurfacePointY               Key = "fb_surface_point_y"
	StringXAtFBEnd                Key = "string_x_at_fb_end"
	StringYAtFBEnd                Key = "string_y_at_fb_end"
	StringHeightAtFBEnd           Key = "string_height_at_fb_end"
	NutPerpendicularIntersectionX Key = "nut_perpendicular_intersection_x"
	NutPerpendicularIntersectionY Key = "nut_perpendicular_intersection_y"
	NutToPerpendicularDistance    Key = "nut_to_perpendicular_distance"
)
