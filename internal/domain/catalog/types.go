// Package catalog holds the primitives shared by all three catalog levels:
// entity kinds, child-revision references and the visibility pair returned
// to the authorization layer.
package catalog

import "github.com/google/uuid"

type Kind string

const (
	KindProduct     Kind = "product"
	KindContainer   Kind = "container"
	KindPointOfSale Kind = "point_of_sale"
)

func (k Kind) String() string {
	return string(k)
}

// ProductRef pins a container revision to one exact product revision.
// Transactions store these pairs verbatim, which is what makes historical
// replay exact.
type ProductRef struct {
	ProductID uuid.UUID `json:"product_id"`
	Revision  int       `json:"revision"`
}

// ContainerRef pins a point-of-sale revision to one exact container revision.
type ContainerRef struct {
	ContainerID uuid.UUID `json:"container_id"`
	Revision    int       `json:"revision"`
}

// Visibility is the primitive pair the external authorization collaborator
// composes with role data. Own means the asking user owns the container,
// Public means the container is flagged public.
type Visibility struct {
	Own    bool `json:"own"`
	Public bool `json:"public"`
}
