package catalog

// Numeric msg_id values. spec.md treats these as "preserved on the wire but
// spec-opaque": nothing in the retrieval pack defines the camera firmware's
// actual numeric assignments (original_source's bc_protocol/*.rs files
// reference MSG_ID_* constants from a model module that isn't part of this
// pack — only MSG_ID_LOGIN=1 and MSG_ID_VIDEO=3 turned up anywhere). The
// values below are internally-consistent placeholders: grounded on each
// command's existence, direction, and XML shape from the corresponding
// *.rs file, not on its numeric wire value. A real camera's values would
// need to replace this table; the command set and framing do not change.
//
// msg_id 1 (login) is owned by the session package (session.Login) and
// deliberately not duplicated here.
const (
	MsgIDLogout               uint32 = 2
	MsgIDUDPKeepAlive         uint32 = 4
	MsgIDPing                 uint32 = 5 // also doubles as get_linktype's reply shape
	MsgIDReboot               uint32 = 6
	MsgIDGetGeneral           uint32 = 7 // system time, get
	MsgIDSetGeneral           uint32 = 8 // system time, set
	MsgIDGetLEDStatus         uint32 = 9
	MsgIDSetLEDStatus         uint32 = 10
	MsgIDGetPIRAlarm          uint32 = 11
	MsgIDStartPIRAlarm        uint32 = 12
	MsgIDFloodlightStatusList uint32 = 13
	MsgIDFloodlightManual     uint32 = 14
	MsgIDAbilityInfo          uint32 = 15
	MsgIDPushInfo             uint32 = 16
	MsgIDVersion              uint32 = 17
	MsgIDUID                  uint32 = 18
	MsgIDSnap                 uint32 = 19
	MsgIDStreamInfoList       uint32 = 20
	MsgIDStartVideo           uint32 = 21
	MsgIDPTZControl           uint32 = 22
	MsgIDPlayAudio            uint32 = 23
	MsgIDGetSupport           uint32 = 24
	MsgIDBatteryInfo          uint32 = 25
	MsgIDBatteryInfoList      uint32 = 26
	MsgIDMotionRequest        uint32 = 27
)
