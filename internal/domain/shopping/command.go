package shopping

// Command is a list mutation. Commands addressing the same (owner, kind)
// are applied strictly one at a time.
type Command interface {
	Target() Target
	Name() string
}

// Target identifies one list
type Target struct {
	Owner OwnerKey
	Kind  Kind
}

func (t Target) String() string {
	return string(t.Owner) + "/" + string(t.Kind)
}

// AddCommand adds a product to a list. CustomerID and AccessToken are
// required for wishlists, which are mirrored on the backend.
type AddCommand struct {
	Owner       OwnerKey
	Kind        Kind
	Entry       Entry
	CustomerID  int64
	AccessToken string
}

func (c AddCommand) Target() Target { return Target{Owner: c.Owner, Kind: c.Kind} }
func (AddCommand) Name() string     { return "add" }

// RemoveCommand removes a product from a list
type RemoveCommand struct {
	Owner       OwnerKey
	Kind        Kind
	ProductID   int64
	AccessToken string
}

func (c RemoveCommand) Target() Target { return Target{Owner: c.Owner, Kind: c.Kind} }
func (RemoveCommand) Name() string     { return "remove" }

// UpdateQuantityCommand changes a cart line
type UpdateQuantityCommand struct {
	Owner     OwnerKey
	ProductID int64
	Quantity  int
}

func (c UpdateQuantityCommand) Target() Target { return Target{Owner: c.Owner, Kind: KindCart} }
func (UpdateQuantityCommand) Name() string     { return "update_quantity" }

// ClearCommand empties a list locally
type ClearCommand struct {
	Owner OwnerKey
	Kind  Kind
}

func (c ClearCommand) Target() Target { return Target{Owner: c.Owner, Kind: c.Kind} }
func (ClearCommand) Name() string     { return "clear" }

// MergeCommand moves guest cart lines into a customer cart
type MergeCommand struct {
	From  OwnerKey
	Owner OwnerKey
}

func (c MergeCommand) Target() Target { return Target{Owner: c.Owner, Kind: KindCart} }
func (MergeCommand) Name() string     { return "merge" }
