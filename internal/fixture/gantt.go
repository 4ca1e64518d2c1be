package fixture

import (
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
)

// GanttFixture is the campaign tree shown by the gantt pages.
type GanttFixture struct {
	Campaigns []Campaign `json:"campaigns"`
}

type Campaign struct {
	CampaignName string  `json:"campaignName"`
	StartDate    Time    `json:"startDate"`
	EndDate      Time    `json:"endDate"`
	Batches      []Batch `json:"batches,omitempty"`
}

// Batch holds either branches (five-level trees) or procedures directly
// (four-level trees), or both.
type Batch struct {
	BatchName  string      `json:"batchName"`
	StartDate  Time        `json:"startDate"`
	EndDate    Time        `json:"endDate"`
	Branches   []Branch    `json:"branches,omitempty"`
	Procedures []Procedure `json:"procedures,omitempty"`
}

type Branch struct {
	BranchName string    `json:"branchName"`
	StartDate  Time      `json:"startDate"`
	EndDate    Time      `json:"endDate"`
	Sections   []Section `json:"sections,omitempty"`
}

type Section struct {
	SectionName string      `json:"sectionName"`
	StartDate   Time        `json:"startDate"`
	EndDate     Time        `json:"endDate"`
	Procedures  []Procedure `json:"procedures,omitempty"`
}

type Procedure struct {
	ProcedureName string      `json:"procedureName"`
	StartDate     Time        `json:"startDate"`
	EndDate       Time        `json:"endDate"`
	Operations    []Operation `json:"operations,omitempty"`
}

type Operation struct {
	OperationName string     `json:"operationName"`
	StartDate     Time       `json:"startDate"`
	EndDate       Time       `json:"endDate"`
	Breaks        []Interval `json:"breaks,omitempty"`
}

// Node is the uniform tree the flattener walks. IDs are assigned in
// pre-order starting at 1.
type Node struct {
	ID        int
	Kind      domain.EntityType
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Breaks    []Interval
	Children  []*Node
}

// Shift moves the node and its breaks by d. Children are not moved.
func (n *Node) Shift(d time.Duration) {
	n.StartDate = n.StartDate.Add(d)
	n.EndDate = n.EndDate.Add(d)
	for i := range n.Breaks {
		n.Breaks[i] = n.Breaks[i].shift(d)
	}
}

// Tree converts the typed fixture into a Node tree.
func (f *GanttFixture) Tree() []*Node {
	b := &treeBuilder{}
	roots := make([]*Node, 0, len(f.Campaigns))
	for _, c := range f.Campaigns {
		n := b.node(domain.EntityCampaign, c.CampaignName, c.StartDate, c.EndDate)
		for _, bt := range c.Batches {
			n.Children = append(n.Children, b.batch(bt))
		}
		roots = append(roots, n)
	}
	return roots
}

type treeBuilder struct {
	next int
}

func (b *treeBuilder) node(kind domain.EntityType, name string, start, end Time) *Node {
	b.next++
	return &Node{
		ID:        b.next,
		Kind:      kind,
		Name:      name,
		StartDate: start.Time,
		EndDate:   end.Time,
		Children:  []*Node{},
	}
}

func (b *treeBuilder) batch(bt Batch) *Node {
	n := b.node(domain.EntityBatch, bt.BatchName, bt.StartDate, bt.EndDate)
	for _, br := range bt.Branches {
		bn := b.node(domain.EntityBranch, br.BranchName, br.StartDate, br.EndDate)
		for _, s := range br.Sections {
			sn := b.node(domain.EntitySection, s.SectionName, s.StartDate, s.EndDate)
			for _, p := range s.Procedures {
				sn.Children = append(sn.Children, b.procedure(p))
			}
			bn.Children = append(bn.Children, sn)
		}
		n.Children = append(n.Children, bn)
	}
	for _, p := range bt.Procedures {
		n.Children = append(n.Children, b.procedure(p))
	}
	return n
}

func (b *treeBuilder) procedure(p Procedure) *Node {
	n := b.node(domain.EntityProcedure, p.ProcedureName, p.StartDate, p.EndDate)
	for _, op := range p.Operations {
		on := b.node(domain.EntityOperation, op.OperationName, op.StartDate, op.EndDate)
		on.Breaks = append([]Interval(nil), op.Breaks...)
		n.Children = append(n.Children, on)
	}
	return n
}

// FindNode returns the node with the given id, or nil.
func FindNode(roots []*Node, id int) *Node {
	for _, n := range roots {
		if n.ID == id {
			return n
		}
		if found := FindNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + CountNodes(n.Children)
	}
	return total
}
