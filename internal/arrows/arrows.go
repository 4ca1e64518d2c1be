// Package arrows links operations to the operations they are scheduled
// against.
package arrows

import "github.com/alexanderramin/ganttkit/internal/domain"

// Build emits one arrow per source whose referenced operation is present in
// sources and belongs to a different procedure. The first source carrying
// the referenced operation id wins. Output follows input order; duplicates
// are kept.
func Build(sources []domain.ArrowSource) []domain.Arrow {
	arrows := []domain.Arrow{}
	for _, item := range sources {
		if item.ReferencedOperationID == 0 {
			continue
		}
		from, ok := find(sources, item.ReferencedOperationID)
		if !ok || from.ProcedureID == item.ProcedureID {
			continue
		}
		arrows = append(arrows, domain.Arrow{
			SourceBarID:      from.BarID,
			SourceEdge:       item.SourceEdge,
			DestinationBarID: item.BarID,
			DestinationEdge:  item.DestinationEdge,
		})
	}
	return arrows
}

func find(sources []domain.ArrowSource, operationID int) (domain.ArrowSource, bool) {
	for _, s := range sources {
		if s.OperationID == operationID {
			return s, true
		}
	}
	return domain.ArrowSource{}, false
}
