package ir

// ConditionKind names a node of the condition tree. The string values are
// the `type` tags used in declarative data.
type ConditionKind string

const (
	CondPreviousTile     ConditionKind = "PreviousTile"
	CondCurrentTile      ConditionKind = "CurrentTile"
	CondPreviousEvent    ConditionKind = "PreviousEvent"
	CondPreviousAction   ConditionKind = "PreviousAction"
	CondCoordinates      ConditionKind = "Coordinates"
	CondUnderworld       ConditionKind = "Underworld"
	CondCounterIncreased ConditionKind = "DungeonCounterIncreased"
	CondBitwiseTrue      ConditionKind = "BitWiseTrue"
	CondValueChanged     ConditionKind = "ValueChanged"
	CondValueChangedTo   ConditionKind = "ValueChangedTo"
	CondValueEq          ConditionKind = "ValueEq"
	CondPreviousValueEq  ConditionKind = "PreviousValueEq"
	CondValueGreaterThan ConditionKind = "ValueGreaterThan"
	CondCheckMade        ConditionKind = "CheckMade"
	CondHasItem          ConditionKind = "HasItem"
	CondAll              ConditionKind = "All"
	CondAny              ConditionKind = "Any"
	CondNot              ConditionKind = "Not"
)

// ConditionKinds lists every kind the evaluator understands, in a stable order.
var ConditionKinds = []ConditionKind{
	CondPreviousTile, CondCurrentTile, CondPreviousEvent, CondPreviousAction,
	CondCoordinates, CondUnderworld, CondCounterIncreased, CondBitwiseTrue,
	CondValueChanged, CondValueChangedTo, CondValueEq, CondPreviousValueEq,
	CondValueGreaterThan, CondCheckMade, CondHasItem, CondAll, CondAny, CondNot,
}

// Composite reports whether the kind combines subconditions.
func (k ConditionKind) Composite() bool {
	return k == CondAll || k == CondAny || k == CondNot
}

// FullMask compares every bit of a byte.
const FullMask uint8 = 0xFF

// Condition is one node of a recursive predicate tree.
//
// Only the fields relevant to Kind are populated:
//
//	PreviousTile, CurrentTile          TileID, TileName
//	PreviousEvent, PreviousAction      ID
//	CheckMade, HasItem                 ID
//	Coordinates                        Coordinates
//	DungeonCounterIncreased            Offset
//	BitWiseTrue                        Offset, Mask
//	ValueChanged                       Offset, Mask
//	ValueChangedTo, ValueEq,
//	PreviousValueEq                    Offset, Value, Mask
//	ValueGreaterThan                   Offset, Other
//	All, Any, Not                      Sub
type Condition struct {
	Kind        ConditionKind
	TileID      int
	TileName    string
	ID          int
	Coordinates []Coordinate
	Offset      int
	Mask        uint8
	Value       uint8
	Other       Operand
	Sub         []Condition
}

// OperandKind selects what ValueGreaterThan compares against.
type OperandKind string

const (
	OperandValueOfAddress OperandKind = "ValueOfAddress"
	OperandCheckCount     OperandKind = "CheckCount"
	OperandItemCount      OperandKind = "ItemCount"
	OperandEventCount     OperandKind = "EventCount"
)

// Operand is the right-hand side of ValueGreaterThan.
type Operand struct {
	Kind   OperandKind
	Offset int // ValueOfAddress
	ID     int // CheckCount, ItemCount, EventCount
}

// Walk calls fn for c and every nested subcondition, depth first.
func (c Condition) Walk(fn func(Condition)) {
	fn(c)
	for _, sub := range c.Sub {
		sub.Walk(fn)
	}
}
