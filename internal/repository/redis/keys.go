package redis

import "fmt"

const ns = "airportapi:v1"

func KeyFlightDetail(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:detail", ns, flightID)
}

func KeyFlightSeats(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:seats", ns, flightID)
}

func KeyIdemOrder(userID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:orders:%d:%s", ns, userID, idemKey)
}
