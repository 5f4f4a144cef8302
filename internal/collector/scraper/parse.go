package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

const (
	weekdayHeading = "будние дни"
	weekendHeading = "выходные дни"
)

var (
	minutePattern = regexp.MustCompile(`\d{2}`)
	// Title-casing lowercases abbreviations that appear in stop names.
	abbreviations = strings.NewReplacer("Мвд", "МВД", "Оао", "ОАО", "Тэц", "ТЭЦ")
)

// titleCase is used for names the site prints in upper or lower case only.
// A cases.Caser is stateful, so each call builds its own.
func titleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return abbreviations.Replace(cases.Title(language.Russian).String(s))
}

func parseList(doc *goquery.Document, class models.VehicleClass) []listing {
	if class == models.Trolleybus {
		return parseTrolleybusList(doc)
	}
	return parseBusList(doc)
}

// parseBusList reads rows of the form
// <td><span>Автобус №5</span> Route name</td><td><a href="...">.
func parseBusList(doc *goquery.Document) []listing {
	var out []listing
	doc.Find("table.adapt-list-schedule").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < 2 {
			return
		}
		desc := tds.Eq(0)
		span := desc.Find("span").First()
		_, number, found := strings.Cut(span.Text(), "№")
		number = strings.TrimSpace(number)
		if !found || number == "" {
			return
		}
		href, ok := tds.Eq(1).Find("a").First().Attr("href")
		if !ok {
			return
		}
		routeName := strings.TrimSpace(strings.Replace(desc.Text(), span.Text(), "", 1))
		out = append(out, listing{Number: number, RouteName: routeName, URL: href})
	})
	return out
}

// parseTrolleybusList reads rows of the form
// <td>2</td><td>ROUTE NAME</td><td><a href="...">.
func parseTrolleybusList(doc *goquery.Document) []listing {
	var out []listing
	doc.Find("table.table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < 3 {
			return
		}
		number := strings.TrimSpace(tds.Eq(0).Text())
		href, ok := tds.Last().Find("a").First().Attr("href")
		if number == "" || !ok {
			return
		}
		out = append(out, listing{Number: number, RouteName: titleCase(tds.Eq(1).Text()), URL: href})
	})
	return out
}

func heading(doc *goquery.Document, keyword string) *goquery.Selection {
	return doc.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), keyword)
	}).First()
}

var errNoSections = errors.New("page has no weekday or weekend schedule")

// parseBusPage reads up to two direction tables following each day-type heading.
func parseBusPage(doc *goquery.Document) (weekday, weekend []models.Route, err error) {
	wd, we := heading(doc, weekdayHeading), heading(doc, weekendHeading)
	if wd.Length() == 0 && we.Length() == 0 {
		return nil, nil, errNoSections
	}
	return busRoutes(wd), busRoutes(we), nil
}

func busRoutes(h2 *goquery.Selection) []models.Route {
	routes := []models.Route{}
	table := h2.Next()
	for i := 0; i < 2 && table.Is("table"); i++ {
		if route, ok := busRoute(table); ok {
			routes = append(routes, route)
		}
		table = table.Next()
	}
	return routes
}

func busRoute(table *goquery.Selection) (models.Route, bool) {
	route := models.Route{
		Name:  strings.TrimSpace(table.Find("thead tr th").First().Text()),
		Stops: []models.Stop{},
	}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < 2 {
			return
		}
		route.Stops = append(route.Stops, models.Stop{
			Name:  strings.TrimSpace(tds.Eq(0).Text()),
			Times: hourBlockTimes(tds.Eq(1)),
		})
	})
	return route, len(route.Stops) > 0
}

// hourBlockTimes reads <div><b>HH</b> MM MM ...</div> blocks.
func hourBlockTimes(cell *goquery.Selection) []string {
	times := []string{}
	cell.Find("div").Each(func(_ int, div *goquery.Selection) {
		hour, err := strconv.Atoi(strings.TrimSpace(div.Find("b").First().Text()))
		if err != nil {
			return
		}
		minutes := div.Clone()
		minutes.Find("b").First().Remove()
		for _, m := range minutePattern.FindAllString(minutes.Text(), -1) {
			times = append(times, fmt.Sprintf("%02d:%s", hour, m))
		}
	})
	return times
}

// parseTrolleybusPage reads the element following each day-type heading. Its
// children alternate stop name and comma separated times; the terminus appears
// twice in a row where the return direction starts.
func parseTrolleybusPage(doc *goquery.Document, routeName string) (weekday, weekend []models.Route, err error) {
	wd, we := heading(doc, weekdayHeading), heading(doc, weekendHeading)
	if wd.Length() == 0 && we.Length() == 0 {
		return nil, nil, errNoSections
	}
	return trolleybusRoutes(wd.Next(), routeName), trolleybusRoutes(we.Next(), routeName), nil
}

func trolleybusRoutes(container *goquery.Selection, routeName string) []models.Route {
	var names, times []string
	container.Children().Each(func(i int, s *goquery.Selection) {
		if i%2 == 0 {
			names = append(names, titleCase(s.Text()))
		} else {
			times = append(times, s.Text())
		}
	})
	n := min(len(names), len(times))
	if n == 0 {
		return []models.Route{}
	}

	turn := -1
	for i := 0; i < n-1; i++ {
		if names[i] == names[i+1] {
			turn = i
			break
		}
	}

	termini := splitTermini(routeName)
	forward := models.Route{Name: strings.Join(termini, " - "), Stops: []models.Stop{}}
	backward := models.Route{Name: strings.Join(reversed(termini), " - "), Stops: []models.Stop{}}
	for i := 0; i < n; i++ {
		stop := models.Stop{Name: names[i], Times: splitTimes(times[i])}
		if turn < 0 || i <= turn {
			forward.Stops = append(forward.Stops, stop)
		} else {
			backward.Stops = append(backward.Stops, stop)
		}
	}

	routes := []models.Route{forward}
	if len(backward.Stops) > 0 {
		routes = append(routes, backward)
	}
	return routes
}

func splitTermini(routeName string) []string {
	var termini []string
	for _, part := range strings.Split(routeName, "–") {
		if part = strings.TrimSpace(part); part != "" {
			termini = append(termini, titleCase(part))
		}
	}
	return termini
}

func splitTimes(s string) []string {
	times := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			times = append(times, t)
		}
	}
	return times
}

func reversed(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
