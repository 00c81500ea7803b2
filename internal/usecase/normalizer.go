package usecase

import (
	"strings"

	"github.com/laundromat-finder/internal/domain"
)

// normalizeElement приводит сырой объект Overpass к результату поиска.
// false - у объекта нет координат, его нужно пропустить.
func normalizeElement(el domain.RawElement) (domain.Laundromat, bool) {
	var lat, lon float64
	switch g := el.Geometry.(type) {
	case domain.PointGeometry:
		lat, lon = g.Lat, g.Lon
	case domain.AreaGeometry:
		lat, lon = g.Centroid.Lat, g.Centroid.Lon
	default:
		return domain.Laundromat{}, false
	}

	name, ok := el.Tag("name")
	if !ok {
		name = domain.DefaultLaundromatName
	}

	address := buildAddress(el)
	if address == nil {
		address = firstTag(el, "addr:full")
	}

	ref := el.Ref()

	return domain.Laundromat{
		ID:           ref,
		Name:         name,
		Address:      address,
		Lat:          lat,
		Lon:          lon,
		DistanceKm:   nil,
		OpeningHours: verbatimTag(el, "opening_hours"),
		Phone:        firstTag(el, "phone", "contact:phone"),
		Website:      firstTag(el, "website", "contact:website"),
		OSMURL:       domain.OSMBaseURL + "/" + ref,
	}, true
}

// buildAddress собирает адрес из тегов addr:*: улица с номером дома,
// населённый пункт с регионом и почтовый индекс через ", ".
// nil, если ни одной части нет.
func buildAddress(el domain.RawElement) *string {
	var parts []string

	if street, ok := el.Tag("addr:street"); ok {
		if num, ok := el.Tag("addr:housenumber"); ok {
			street = num + " " + street
		}
		parts = append(parts, street)
	}

	var locality []string
	if city := firstTag(el, "addr:city", "addr:town", "addr:village"); city != nil {
		locality = append(locality, *city)
	}
	if state := firstTag(el, "addr:state", "addr:province"); state != nil {
		locality = append(locality, *state)
	}
	if len(locality) > 0 {
		parts = append(parts, strings.Join(locality, ", "))
	}

	if postcode, ok := el.Tag("addr:postcode"); ok {
		parts = append(parts, postcode)
	}

	if len(parts) == 0 {
		return nil
	}
	address := strings.Join(parts, ", ")
	return &address
}

// firstTag возвращает первое непустое значение из перечисленных тегов
func firstTag(el domain.RawElement, keys ...string) *string {
	for _, key := range keys {
		if v, ok := el.Tag(key); ok {
			return &v
		}
	}
	return nil
}

func verbatimTag(el domain.RawElement, key string) *string {
	v, ok := el.Tags[key]
	if !ok {
		return nil
	}
	return &v
}

// compareByName - сортировка по имени (с учётом регистра), пустые имена в конце
func compareByName(a, b domain.Laundromat) int {
	switch {
	case a.Name == "" && b.Name == "":
		return 0
	case a.Name == "":
		return 1
	case b.Name == "":
		return -1
	}
	return strings.Compare(a.Name, b.Name)
}
