// Package injector is a reflection-based resolution host. It reads the struct tags
// of a synthesized carrier and fills every slot: @Inject and @Observes slots from
// typed providers (optionally qualified with @Named), resource slots from named
// resources.
package injector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// envLookupPrefix marks a resource lookup that reads the process environment, as
// in @Resource(lookup=env.HOME).
const envLookupPrefix = "env."

var resourceKinds = []string{
	descriptor.KindResource,
	descriptor.KindEJB,
	descriptor.KindWebServiceRef,
	descriptor.KindPersistenceUnit,
	descriptor.KindPersistenceContext,
}

// PostConstructFunc runs on a populated carrier instance.
type PostConstructFunc func(ctx context.Context, instance any) error

// Injector implements binder.Resolver.
type Injector struct {
	mu            sync.RWMutex
	providers     map[providerKey]*provider
	resources     map[string]any
	postConstruct []PostConstructFunc
	logger        *slog.Logger
}

var _ binder.Resolver = (*Injector)(nil)

// New creates an empty Injector.
func New(opts ...Option) *Injector {
	i := &Injector{
		providers: make(map[providerKey]*provider),
		resources: make(map[string]any),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = i.logger.WithGroup("injector")
	return i
}

// Register adds a provider for typ.
func (i *Injector) Register(typ reflect.Type, fn ProviderFunc, opts ...ProvideOption) error {
	if typ == nil || fn == nil {
		return fmt.Errorf("%w: type and function are required", ErrInvalidProvider)
	}
	p := &provider{key: providerKey{typ: typ}, produce: fn}
	for _, opt := range opts {
		opt(p)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if _, exists := i.providers[p.key]; exists {
		return fmt.Errorf("%w: %s %q", ErrDuplicateProvider, typ, p.key.qualifier)
	}
	i.providers[p.key] = p
	return nil
}

// SetResource binds value to a resource name, replacing any previous value.
func (i *Injector) SetResource(name string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.resources[name] = value
}

// Resources returns the registered resource names, sorted.
func (i *Injector) Resources() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Sorted(maps.Keys(i.resources))
}

// Resolve populates a new instance of the carrier. Every slot failure is reported;
// the instance is only returned when all slots were filled.
func (i *Injector) Resolve(ctx context.Context, carrier *binder.Carrier) (any, error) {
	inst := carrier.New()
	v := reflect.ValueOf(inst).Elem()
	logger := i.logger.With("carrier", carrier.Name())

	var errs []error
	for _, slot := range carrier.Slots() {
		value, err := i.resolveSlot(ctx, slot)
		if err != nil {
			errs = append(errs, &SlotError{Carrier: carrier.Name(), Binding: slot.Binding, Err: err})
			continue
		}
		field := v.FieldByName(slot.Field)
		if !field.IsValid() || !field.CanSet() {
			errs = append(errs, &SlotError{Carrier: carrier.Name(), Binding: slot.Binding, Err: ErrBadCarrier})
			continue
		}
		if value.IsValid() {
			field.Set(value)
		}
		logger.Debug("Slot populated", "binding", slot.Binding, "class", slot.Class)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, hook := range i.postConstruct {
		if err := hook(ctx, inst); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPostConstruct, carrier.Name(), err)
		}
	}
	return inst, nil
}

func (i *Injector) resolveSlot(ctx context.Context, slot binder.Slot) (reflect.Value, error) {
	switch slot.Tag.Get(binder.TagCapability) {
	case strings.ToLower(descriptor.CapabilityInjected.String()),
		strings.ToLower(descriptor.CapabilityObserved.String()):
		qualifier, err := qualifierOf(slot.Tag)
		if err != nil {
			return reflect.Value{}, err
		}
		return i.provide(ctx, slot.Type, qualifier)
	case strings.ToLower(descriptor.CapabilityResource.String()):
		return i.resource(slot)
	default:
		return reflect.Value{}, fmt.Errorf("%w: slot %s has no capability tag", ErrBadCarrier, slot.Field)
	}
}

func qualifierOf(tag reflect.StructTag) (string, error) {
	args, ok, err := binder.MarkerArgs(tag, descriptor.KindNamed)
	if err != nil || !ok {
		return "", err
	}
	return args["value"], nil
}

// provide finds the provider registered for typ, or failing that the single
// provider whose type is assignable to typ.
func (i *Injector) provide(ctx context.Context, typ reflect.Type, qualifier string) (reflect.Value, error) {
	i.mu.RLock()
	p, ok := i.providers[providerKey{typ: typ, qualifier: qualifier}]
	if !ok {
		var matches []*provider
		for key, candidate := range i.providers {
			if key.qualifier == qualifier && key.typ.AssignableTo(typ) {
				matches = append(matches, candidate)
			}
		}
		switch len(matches) {
		case 0:
		case 1:
			p, ok = matches[0], true
		default:
			i.mu.RUnlock()
			return reflect.Value{}, fmt.Errorf("%w: %s %q", ErrAmbiguousProvider, typ, qualifier)
		}
	}
	i.mu.RUnlock()

	if !ok {
		if qualifier != "" {
			return reflect.Value{}, fmt.Errorf("%w: %s named %q", ErrUnsatisfied, typ, qualifier)
		}
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsatisfied, typ)
	}

	value, err := p.get(ctx)
	if err != nil {
		return reflect.Value{}, err
	}
	if value == nil {
		return reflect.Zero(typ), nil
	}
	return reflect.ValueOf(value), nil
}

// resource looks up the slot's resource by the name, lookup or value argument of
// its resource marker, falling back to the variable name.
func (i *Injector) resource(slot binder.Slot) (reflect.Value, error) {
	var args map[string]string
	for _, kind := range resourceKinds {
		a, ok, err := binder.MarkerArgs(slot.Tag, kind)
		if err != nil {
			return reflect.Value{}, err
		}
		if ok {
			args = a
			break
		}
	}

	if lookup := args["lookup"]; strings.HasPrefix(lookup, envLookupPrefix) {
		if env, ok := os.LookupEnv(strings.TrimPrefix(lookup, envLookupPrefix)); ok {
			return coerce(env, slot.Type)
		}
	}

	var names []string
	for _, key := range []string{"name", "lookup", "value"} {
		if n := args[key]; n != "" {
			names = append(names, n)
		}
	}
	names = append(names, slot.Binding)

	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, name := range names {
		if value, ok := i.resources[name]; ok {
			return coerce(value, slot.Type)
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrResourceNotFound, strings.Join(slices.Compact(names), ", "))
}

var durationType = reflect.TypeFor[time.Duration]()

// coerce converts value to typ. Strings are parsed into numeric, boolean and
// time.Duration types since configured resources are strings.
func coerce(value any, typ reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(typ), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}

	if s, ok := value.(string); ok {
		out := reflect.New(typ).Elem()
		if typ == durationType {
			d, err := time.ParseDuration(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %q as %s: %w", ErrResourceType, s, typ, err)
			}
			out.SetInt(int64(d))
			return out, nil
		}
		var err error
		switch typ.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			var n int64
			if n, err = strconv.ParseInt(s, 0, typ.Bits()); err == nil {
				out.SetInt(n)
				return out, nil
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			var n uint64
			if n, err = strconv.ParseUint(s, 0, typ.Bits()); err == nil {
				out.SetUint(n)
				return out, nil
			}
		case reflect.Float32, reflect.Float64:
			var f float64
			if f, err = strconv.ParseFloat(s, typ.Bits()); err == nil {
				out.SetFloat(f)
				return out, nil
			}
		case reflect.Bool:
			var b bool
			if b, err = strconv.ParseBool(s); err == nil {
				out.SetBool(b)
				return out, nil
			}
		}
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q as %s: %w", ErrResourceType, s, typ, err)
		}
	}

	// int to string would yield a rune, so conversions stay within string kinds
	// or within non-string kinds.
	if v.Type().ConvertibleTo(typ) && (v.Kind() == reflect.String) == (typ.Kind() == reflect.String) {
		return v.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T is not %s", ErrResourceType, value, typ)
}
