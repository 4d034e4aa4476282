package state

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

type OpType string

const (
	OpCreate OpType = "create"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// Op is a finalized canvas mutation produced by a tool. Create carries the
// single new shape; update and delete carry the full resulting shape list.
type Op struct {
	Type   OpType
	Shape  Shape
	Shapes []Shape
}

func CreateOp(s Shape) Op        { return Op{Type: OpCreate, Shape: s} }
func UpdateOp(shapes []Shape) Op { return Op{Type: OpUpdate, Shapes: shapes} }
func DeleteOp(shapes []Shape) Op { return Op{Type: OpDelete, Shapes: shapes} }
