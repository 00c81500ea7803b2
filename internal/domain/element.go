package domain

import "strconv"

// ElementType - тип объекта OSM
type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// Geometry - координаты сырого объекта: PointGeometry или AreaGeometry.
// nil означает, что координаты определить нельзя.
type Geometry interface {
	isGeometry()
}

// PointGeometry - точечный объект с собственными координатами
type PointGeometry struct {
	Lat float64
	Lon float64
}

// AreaGeometry - площадной объект, представленный центроидом
type AreaGeometry struct {
	Centroid Point
}

func (PointGeometry) isGeometry() {}
func (AreaGeometry) isGeometry()  {}

// RawElement - объект из ответа Overpass до нормализации
type RawElement struct {
	Type     ElementType
	ID       int64
	Geometry Geometry
	Tags     map[string]string
}

// Ref возвращает составной идентификатор вида "node/12345"
func (e RawElement) Ref() string {
	return string(e.Type) + "/" + strconv.FormatInt(e.ID, 10)
}

// Tag возвращает значение тега, пустые значения считаются отсутствующими
func (e RawElement) Tag(key string) (string, bool) {
	v, ok := e.Tags[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
