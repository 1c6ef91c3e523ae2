// Package employee turns a free-text description of an employee into the
// structured record the song prompt is built from.
//
// Extraction is keyword and pattern matching only. Missing signals never
// produce errors: department falls back to [Operations] and years to
// [DefaultYears].
package employee

// Department is the organisational unit an employee belongs to.
type Department string

const (
	Sales       Department = "Sales"
	Engineering Department = "Engineering"
	Marketing   Department = "Marketing"
	Operations  Department = "Operations"
)

// Defaults applied when the free text carries no usable signal.
const (
	DefaultDepartment = Operations
	DefaultRole       = "Employee"
	DefaultYears      = 3
)

// Info describes the subject of a generated song.
type Info struct {
	Name       string     `json:"name" yaml:"name"`
	Department Department `json:"department" yaml:"department"`
	Role       string     `json:"role" yaml:"role"`
	Years      int        `json:"years" yaml:"years"`
}
