package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/laundromat-finder/internal/domain"
)

// serverTimeoutSeconds - таймаут выполнения запроса на стороне Overpass
const serverTimeoutSeconds = 25

// geometryKinds - типы объектов, по которым ищем: точки и контуры
var geometryKinds = []domain.ElementType{domain.ElementNode, domain.ElementWay}

// BuildQuery формирует текст запроса на Overpass QL: объединение
// всех категорий из domain.LaundromatTags для точек и контуров в радиусе
// от центра, с центроидами и полным набором тегов.
func BuildQuery(q domain.SpatialQuery) string {
	around := fmt.Sprintf("(around:%d,%s,%s)",
		q.RadiusMeters,
		formatCoord(q.Center.Lat),
		formatCoord(q.Center.Lon),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", serverTimeoutSeconds)
	for _, tag := range domain.LaundromatTags {
		for _, kind := range geometryKinds {
			fmt.Fprintf(&b, "  %s[%q=%q]%s;\n", kind, tag.Key, tag.Value, around)
		}
	}
	fmt.Fprintf(&b, ");\nout center tags qt %d;", q.MaxResults)

	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
