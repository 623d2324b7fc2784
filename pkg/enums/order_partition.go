package enums

import "fmt"

// OrderPartition is the storage namespace an order is written into. Signed-in
// buyers land in the user partition, anonymous checkouts in the guest one.
type OrderPartition string

const (
	OrderPartitionUser  OrderPartition = "user"
	OrderPartitionGuest OrderPartition = "guest"
)

var validOrderPartitions = []OrderPartition{
	OrderPartitionUser,
	OrderPartitionGuest,
}

// String implements fmt.Stringer.
func (o OrderPartition) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPartition.
func (o OrderPartition) IsValid() bool {
	for _, candidate := range validOrderPartitions {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPartition converts raw input into an OrderPartition.
func ParseOrderPartition(value string) (OrderPartition, error) {
	for _, candidate := range validOrderPartitions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order partition %q", value)
}
