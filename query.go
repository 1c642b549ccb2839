package realaddress

import "math/rand/v2"

// intN returns a uniform integer in [0, n). Uses the injected source when
// one was configured, guarding it since *rand.Rand is not goroutine-safe.
func (d *Dataset) intN(n int) int {
	if d.rng == nil {
		return rand.IntN(n)
	}
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.IntN(n)
}

// pick selects one of the given address indices uniformly.
func (d *Dataset) pick(indices []int) (Address, bool) {
	if len(indices) == 0 {
		return Address{}, false
	}
	return d.addresses[indices[d.intN(len(indices))]], true
}

// RandomAddress returns a uniformly chosen address.
// ok is false only when the dataset is empty.
func (d *Dataset) RandomAddress() (Address, bool) {
	if len(d.addresses) == 0 {
		return Address{}, false
	}
	return d.addresses[d.intN(len(d.addresses))], true
}

// RandomAddressByState returns a random address whose state equals
// stateCode exactly (case-sensitive). ok is false when nothing matches.
func (d *Dataset) RandomAddressByState(stateCode string) (Address, bool) {
	return d.pick(d.stateIndex[stateCode])
}

// RandomAddressByPostalCode returns a random address with the given postal code.
func (d *Dataset) RandomAddressByPostalCode(postalCode string) (Address, bool) {
	return d.pick(d.postalIndex[postalCode])
}

// RandomAddressByCity returns a random address in city. The comparison is
// case-insensitive: "newark" and "NEWARK" draw from the same records.
func (d *Dataset) RandomAddressByCity(city string) (Address, bool) {
	if city == "" {
		return Address{}, false
	}
	return d.pick(d.cityIndex[toLower(city)])
}

// RandomAddress returns a random address from the bundled dataset.
func RandomAddress() (Address, bool) {
	return defaultDS().RandomAddress()
}

// RandomAddressByState returns a random bundled address in the given state.
func RandomAddressByState(stateCode string) (Address, bool) {
	return defaultDS().RandomAddressByState(stateCode)
}

// RandomAddressByPostalCode returns a random bundled address with the given postal code.
func RandomAddressByPostalCode(postalCode string) (Address, bool) {
	return defaultDS().RandomAddressByPostalCode(postalCode)
}

// RandomAddressByCity returns a random bundled address in city (case-insensitive).
func RandomAddressByCity(city string) (Address, bool) {
	return defaultDS().RandomAddressByCity(city)
}
