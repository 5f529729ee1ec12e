package internal

// --------------------------------------------------------------------------
// Mutation Types are used to label changes of the database state
// --------------------------------------------------------------------------

type MutationType int

const (
	MutationTSet MutationType = iota
	MutationTInsert
	MutationTUpdate
	MutationTDelete
	MutationTCreateIndex
	MutationTRemoveIndex
)

// MutationTypes lists all mutation types
var MutationTypes = []MutationType{
	MutationTSet, MutationTInsert, MutationTUpdate, MutationTDelete, MutationTCreateIndex, MutationTRemoveIndex,
}

func (m MutationType) String() string {
	switch m {
	case MutationTSet:
		return "set"
	case MutationTInsert:
		return "insert"
	case MutationTUpdate:
		return "update"
	case MutationTDelete:
		return "delete"
	case MutationTCreateIndex:
		return "create_index"
	case MutationTRemoveIndex:
		return "remove_index"
	default:
		return "unknown"
	}
}
