// Package agent defines the contract between the arena and the code steering an ant.
package agent

// Semantic classifies what a view ray hit.
type Semantic int

const (
	SemanticAlly Semantic = iota + 1
	SemanticEnemy
	SemanticSugar
	SemanticOwnHill
	SemanticOthersHill
)

type ViewRay struct {
	Distance float64  `json:"distance"`
	Semantic Semantic `json:"semantic"`
}

type Smell struct {
	Strength  float64 `json:"strength"` // 0..1
	AllyCode  int     `json:"ally_code"`
	EnemyCode int     `json:"enemy_code"`
}

// Perception is what an ant senses at one step. View rays come in a fixed angle
// order; smells are unordered.
type Perception struct {
	Touch    bool      `json:"touch"`
	Velocity float64   `json:"velocity"`
	View     []ViewRay `json:"view"`
	Smell    []Smell   `json:"smell"`
}

type Activity int

const (
	ActivityNone Activity = iota + 1
	ActivityCarry
	ActivityFight
)

type Action struct {
	Turn        float64  `json:"turn"`
	Accelerate  float64  `json:"accelerate"`
	Activity    Activity `json:"activity"`
	CreateSmell *int     `json:"create_smell,omitempty"`
}

// Agent decides the next action of one ant.
type Agent interface {
	Think(p Perception) Action
}

// Func adapts a plain function to Agent.
type Func func(p Perception) Action

func (f Func) Think(p Perception) Action { return f(p) }
