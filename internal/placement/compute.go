package placement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/natal/internal/contracts"
	"github.com/wonny/natal/internal/coords"
	"github.com/wonny/natal/internal/houses"
	"github.com/wonny/natal/internal/zodiac"
)

// lookup is one provider answer; errors stay per body so that one failed
// body never cancels the others
type lookup struct {
	lon float64
	err error
}

// geometry is the house-side work done alongside the lookups
type geometry struct {
	quadrant    contracts.HouseCusps
	quadrantErr error
	ascendant   float64 // tropical
	ascErr      error
}

// Compute derives the placement summary for one birth input.
//
// Input and instant errors are returned before any lookup. When exactly one
// branch fails the summary is still returned (Partial() is true). When both
// fail the joined causes are returned.
func (e *Engine) Compute(ctx context.Context, in contracts.BirthInput) (*contracts.PlacementSummary, error) {
	start := time.Now()

	if err := in.Validate(); err != nil {
		e.observer.ObserveCompute(OutcomeFailed, contracts.ErrorKind(err), time.Since(start))
		return nil, err
	}

	inst, err := e.normalizer.Normalize(in)
	if err != nil {
		e.observer.ObserveCompute(OutcomeFailed, contracts.ErrorKind(err), time.Since(start))
		return nil, err
	}

	return e.computeAt(ctx, in, inst, start)
}

// computeAt runs the pipeline from an already normalized instant
func (e *Engine) computeAt(ctx context.Context, in contracts.BirthInput, inst contracts.Instant, start time.Time) (*contracts.PlacementSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bodies := contracts.EphemerisBodies()
	results := make([]lookup, len(bodies))
	var geo geometry

	eg, egCtx := errgroup.WithContext(ctx)
	for idx, body := range bodies {
		eg.Go(func() error {
			lon, err := e.lookup(egCtx, inst, body)
			results[idx] = lookup{lon: lon, err: err}
			return nil
		})
	}
	eg.Go(func() error {
		geo.quadrant, geo.quadrantErr = e.houses.Quadrant(inst, in.Latitude, in.Longitude, e.opts.HouseSystem)
		geo.ascendant, _, geo.ascErr = e.houses.Angles(inst, in.Latitude, in.Longitude)
		return nil
	})
	_ = eg.Wait()

	// 호출자가 취소하거나 deadline이 지나면 부분 결과 없이 그대로 반환
	if err := ctx.Err(); err != nil {
		e.observer.ObserveCompute(OutcomeFailed, contracts.ErrorKind(err), time.Since(start))
		return nil, err
	}

	tropical := make(map[contracts.Body]float64, len(bodies))
	lookupErrs := make(map[contracts.Body]error)
	for idx, body := range bodies {
		if results[idx].err != nil {
			lookupErrs[body] = results[idx].err
			continue
		}
		tropical[body] = results[idx].lon
	}

	aya := e.ayanamsa.Degrees(inst)

	summary := &contracts.PlacementSummary{
		Input:       in,
		Instant:     inst,
		Ayanamsa:    contracts.Ayanamsa{Standard: e.ayanamsa.Name(), Degrees: aya},
		HouseSystem: e.opts.HouseSystem.String(),
		ConfigHash:  e.opts.ConfigHash,
		Provider:    e.provider.Name(),
	}

	trop, tropErr := buildTropical(tropical, lookupErrs, geo)
	sid, sidErr := buildSidereal(tropical, lookupErrs, geo, aya)

	summary.Tropical = trop
	summary.Sidereal = sid
	summary.Status = contracts.SummaryStatus{
		Tropical: contracts.NewBranchStatus(tropErr),
		Sidereal: contracts.NewBranchStatus(sidErr),
	}

	log := e.log.WithFields(map[string]interface{}{
		"instant":  inst.String(),
		"provider": e.provider.Name(),
		"system":   e.opts.HouseSystem.String(),
		"duration": time.Since(start).String(),
	})

	switch {
	case tropErr != nil && sidErr != nil:
		err := errors.Join(tropErr, sidErr)
		e.observer.ObserveCompute(OutcomeFailed, contracts.ErrorKind(err), time.Since(start))
		log.WithError(err).Warn("placement failed")
		return nil, err
	case summary.Partial():
		err := summary.Err()
		e.observer.ObserveCompute(OutcomePartial, contracts.ErrorKind(errors.Join(tropErr, sidErr)), time.Since(start))
		log.WithError(err).Warn("partial placement")
	default:
		e.observer.ObserveCompute(OutcomeComplete, "", time.Since(start))
		log.Debug("placement computed")
	}

	return summary, nil
}

// lookup asks the provider for one body under the per-lookup timeout.
// Anything but a finite longitude is an ephemeris failure, except the
// caller's own cancellation or deadline, which is returned as is.
func (e *Engine) lookup(ctx context.Context, inst contracts.Instant, body contracts.Body) (float64, error) {
	parent := ctx
	if e.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.LookupTimeout)
		defer cancel()
	}

	start := time.Now()
	lon, err := e.provider.LongitudeOf(ctx, inst, body)
	if err == nil && (math.IsNaN(lon) || math.IsInf(lon, 0)) {
		err = fmt.Errorf("non-finite longitude %v", lon)
	}
	if err != nil {
		if perr := parent.Err(); perr != nil {
			return 0, perr
		}
	}
	if err != nil && !errors.Is(err, contracts.ErrEphemerisUnavailable) {
		err = fmt.Errorf("%w: %s via %s: %w", contracts.ErrEphemerisUnavailable, body, e.provider.Name(), err)
	}
	e.observer.ObserveLookup(e.provider.Name(), body, time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return zodiac.Normalize(lon), nil
}

// branchErr joins the failures of the named bodies plus any extra causes
func branchErr(name string, lookupErrs map[contracts.Body]error, need []contracts.Body, extra ...error) error {
	var errs []error
	for _, b := range need {
		if err, ok := lookupErrs[b]; ok {
			errs = append(errs, err)
		}
	}
	errs = append(errs, extra...)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s branch: %w", name, err)
	}
	return nil
}

func buildTropical(lon map[contracts.Body]float64, lookupErrs map[contracts.Body]error, geo geometry) (*contracts.TropicalChart, error) {
	if err := branchErr("tropical", lookupErrs, []contracts.Body{contracts.BodySun, contracts.BodyMoon}, geo.quadrantErr); err != nil {
		return nil, err
	}

	cusps := geo.quadrant
	place := func(body contracts.Body, l float64) contracts.Placement {
		l = zodiac.Normalize(l)
		return contracts.Placement{
			Body:       body,
			Longitude:  l,
			SignDegree: zodiac.SignDegreeOf(l),
			House:      houses.HouseOf(l, cusps),
		}
	}

	return &contracts.TropicalChart{
		Sun:       place(contracts.BodySun, lon[contracts.BodySun]),
		Moon:      place(contracts.BodyMoon, lon[contracts.BodyMoon]),
		Ascendant: place(contracts.BodyAscendant, cusps.Ascendant),
		Houses:    cusps,
	}, nil
}

func buildSidereal(lon map[contracts.Body]float64, lookupErrs map[contracts.Body]error, geo geometry, aya float64) (*contracts.SiderealChart, error) {
	if err := branchErr("sidereal", lookupErrs, contracts.EphemerisBodies(), geo.ascErr); err != nil {
		return nil, err
	}

	ascSid := coords.ToSidereal(geo.ascendant, aya)
	ascSign := zodiac.SignOf(ascSid)

	place := func(body contracts.Body, sid float64) contracts.Placement {
		return contracts.Placement{
			Body:       body,
			Longitude:  sid,
			SignDegree: zodiac.SignDegreeOf(sid),
			House:      houses.WholeSignHouse(zodiac.SignOf(sid), ascSign),
		}
	}

	chart := &contracts.SiderealChart{
		Ascendant: place(contracts.BodyAscendant, ascSid),
		Houses:    houses.WholeSign(ascSid),
	}

	planets := map[contracts.Body]*contracts.Placement{
		contracts.BodySun:     &chart.Sun,
		contracts.BodyMoon:    &chart.Moon,
		contracts.BodyMercury: &chart.Mercury,
		contracts.BodyVenus:   &chart.Venus,
		contracts.BodyMars:    &chart.Mars,
		contracts.BodyJupiter: &chart.Jupiter,
		contracts.BodySaturn:  &chart.Saturn,
	}
	tropical := make([]contracts.BodyLongitude, 0, len(planets))
	for _, b := range contracts.Planets() {
		tropical = append(tropical, contracts.BodyLongitude{Body: b, Longitude: lon[b]})
	}
	for _, r := range coords.Resolve(tropical, aya) {
		*planets[r.Body] = place(r.Body, r.Sidereal)
	}

	// nakshatra/pada는 Moon에만
	nak := zodiac.NakshatraOf(chart.Moon.Longitude)
	chart.Moon.Nakshatra = &nak

	tropNodes := coords.Nodes(lon[contracts.BodyMeanNode], lon[contracts.BodyTrueNode])
	for i, n := range coords.SiderealNodes(tropNodes, aya) {
		chart.Nodes[i] = contracts.NodePair{
			Variant: n.Variant,
			Rahu:    place(contracts.BodyRahu, n.Rahu),
			Ketu:    place(contracts.BodyKetu, n.Ketu),
		}
	}

	return chart, nil
}
