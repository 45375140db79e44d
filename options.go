package xlbudget

import "runtime"

// Options holds configuration for processing a workbook.
type Options struct {
	marker     string
	markerExpr string
	direction  ScanDirection
	observers  []Observer
	workers    int
	sheets     []string
}

func defaultOptions() *Options {
	return &Options{
		direction: ScanBelow,
		workers:   runtime.GOMAXPROCS(0),
	}
}

func newOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// Option configures processing.
type Option func(*Options)

// WithMarker enables marker row padding for rows holding a cell whose text
// contains marker, ignoring case.
func WithMarker(marker string) Option {
	return func(o *Options) { o.marker = marker }
}

// WithMarkerExpr enables marker row padding for rows holding a cell for which
// the boolean expression holds. It takes precedence over WithMarker.
func WithMarkerExpr(expression string) Option {
	return func(o *Options) { o.markerExpr = expression }
}

// WithScanDirection sets where subtotal rows find their children (default: ScanBelow).
func WithScanDirection(d ScanDirection) Option {
	return func(o *Options) { o.direction = d }
}

// WithObserver adds an observer notified of every tracing event. When sheets
// run in parallel the observer is called from several goroutines.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithWorkers bounds how many sheets are processed in parallel (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *Options) { o.workers = n }
}

// WithSheets restricts processing to the named sheets. Other sheets are
// copied through unchanged.
func WithSheets(names ...string) Option {
	return func(o *Options) { o.sheets = append(o.sheets, names...) }
}

// observer merges the configured observers into one.
func (o *Options) observer() Observer {
	switch len(o.observers) {
	case 0:
		return nopObserver{}
	case 1:
		return o.observers[0]
	default:
		obs := o.observers
		return ObserverFunc(func(e Event) {
			for _, ob := range obs {
				ob.Observe(e)
			}
		})
	}
}

// markerMatcher returns the configured matcher, or nil when padding is off.
func (o *Options) markerMatcher() (MarkerMatcher, error) {
	if o.markerExpr != "" {
		return MarkerExpr(o.markerExpr)
	}
	if o.marker != "" {
		return MarkerContains(o.marker), nil
	}
	return nil, nil
}

func (o *Options) wantsSheet(name string) bool {
	if len(o.sheets) == 0 {
		return true
	}
	for _, s := range o.sheets {
		if s == name {
			return true
		}
	}
	return false
}
