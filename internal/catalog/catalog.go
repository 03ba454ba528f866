package catalog

// Item is one maintenance item with its recommended service interval.
type Item struct {
	Key        string `json:"key"`
	IntervalKm int    `json:"interval_km"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
}

// items is the shop's maintenance catalog in definition order. Status
// calculation iterates this list, so the order here is the order customers see.
var items = []Item{
	{Key: "engine_oil", IntervalKm: 10000, Label: "Engine oil", Icon: "oil-can"},
	{Key: "oil_filter", IntervalKm: 10000, Label: "Oil filter", Icon: "filter"},
	{Key: "air_filter", IntervalKm: 20000, Label: "Air filter", Icon: "wind"},
	{Key: "cabin_filter", IntervalKm: 15000, Label: "Cabin filter", Icon: "fan"},
	{Key: "brake_pads", IntervalKm: 40000, Label: "Brake pads", Icon: "brake-warning"},
	{Key: "brake_fluid", IntervalKm: 40000, Label: "Brake fluid", Icon: "droplet"},
	{Key: "coolant", IntervalKm: 60000, Label: "Coolant", Icon: "thermometer"},
	{Key: "spark_plugs", IntervalKm: 60000, Label: "Spark plugs", Icon: "bolt"},
	{Key: "transmission_oil", IntervalKm: 80000, Label: "Transmission oil", Icon: "gears"},
	{Key: "timing_belt", IntervalKm: 100000, Label: "Timing belt", Icon: "rotate"},
}

var byKey = func() map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.Key] = it
	}
	return m
}()

// Items returns the catalog in definition order. The returned slice is a copy.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Lookup returns the catalog item for key.
func Lookup(key string) (Item, bool) {
	it, ok := byKey[key]
	return it, ok
}
