// Package workload drives a storehouse.Storages through spawn, migrate and
// despawn cycles and checks that no entity or component value is lost or
// duplicated along the way.
package workload

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"unsafe"

	"github.com/TheBitDrifter/storehouse"
	"github.com/TheBitDrifter/storehouse/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result counts what one worker did. Created and Dropped cover only kinds
// configured with drop tracking and must match once a worker finishes.
type Result struct {
	Worker      int
	Spawned     int
	Moved       int
	Transferred int
	Replaced    int
	Despawned   int
	Live        int
	Created     int
	Dropped     int
}

// Run executes one independent workload per configured worker. Each worker
// owns its own Storages, so no storage is shared between goroutines.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]Result, error) {
	results := make([]Result, cfg.Workload.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range cfg.Workload.Workers {
		g.Go(func() error {
			res, err := runWorker(ctx, w, cfg)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = res
			log.Debug("worker finished",
				zap.Int("worker", w),
				zap.Int("live", res.Live),
				zap.Int("moved", res.Moved),
				zap.Int("transferred", res.Transferred),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type kind struct {
	info    *storehouse.ComponentInfo
	tracked bool
}

type location struct {
	alive     bool
	full      bool
	hasSparse bool
	region    int
	row       storehouse.TableRow
}

type regionMarker struct{}

// regionKey gives region i its own marker type: [i]regionMarker is a
// distinct reflect.Type for every array length i.
func regionKey(i int) reflect.Type {
	return reflect.ArrayOf(i, reflect.TypeFor[regionMarker]())
}

type world struct {
	res        Result
	rng        *rand.Rand
	components *storehouse.Components
	storages   *storehouse.Storages
	regions    []storehouse.SubStorageID
	base       []kind
	extra      []kind
	sparse     []kind
	baseTables []storehouse.TableID
	fullTables []storehouse.TableID
	locs       []location
	scratch    []byte
}

func newWorld(worker int, cfg *config.Config) (*world, error) {
	w := &world{
		res:        Result{Worker: worker},
		rng:        rand.New(rand.NewSource(cfg.Workload.Seed + int64(worker))),
		components: storehouse.Factory.NewComponents(),
		storages:   storehouse.Factory.NewStorages(),
		locs:       make([]location, cfg.Workload.Entities),
	}

	var tables []kind
	var maxSize uint
	for _, c := range cfg.Components {
		desc := storehouse.ComponentDescriptor{
			Name:   c.Name,
			Layout: storehouse.Layout{Size: uintptr(c.Size), Align: uintptr(c.Align)},
		}
		if c.Drop {
			desc.Drop = func(unsafe.Pointer) { w.res.Dropped++ }
		}
		if c.Storage == "sparse_set" {
			desc.StorageType = storehouse.StorageSparseSet
		}
		id := w.components.Register(desc)
		k := kind{info: w.components.MustInfo(id), tracked: c.Drop}
		if desc.StorageType == storehouse.StorageSparseSet {
			w.sparse = append(w.sparse, k)
		} else {
			tables = append(tables, k)
		}
		maxSize = max(maxSize, c.Size)
	}
	half := max(len(tables)/2, 1)
	w.base, w.extra = tables[:half], tables[half:]
	w.scratch = make([]byte, max(maxSize, 1))

	bundles := storehouse.Factory.NewBundles()
	all := make([]storehouse.ComponentID, 0, w.components.Len())
	for info := range w.components.All() {
		all = append(all, info.ID())
	}
	bundleID, err := bundles.Register(w.components, all...)
	if err != nil {
		return nil, fmt.Errorf("register bundle: %w", err)
	}
	bundle := bundles.MustGet(bundleID)

	subs := w.storages.SubStorages()
	w.regions = append(w.regions, storehouse.MainStorage)
	for i := 1; i < cfg.Workload.Regions; i++ {
		w.regions = append(w.regions, subs.LookupOrRegister(regionKey(i)))
	}
	for _, region := range w.regions {
		w.storages.PrepareBundle(region, w.components, bundle)
		tbls := subs.Index(region).Tables()
		w.baseTables = append(w.baseTables, tbls.GetIDOrInsert(ids(w.base), w.components))
		w.fullTables = append(w.fullTables, tbls.GetIDOrInsert(append(ids(w.base), ids(w.extra)...), w.components))
	}
	return w, nil
}

func ids(kinds []kind) []storehouse.ComponentID {
	out := make([]storehouse.ComponentID, len(kinds))
	for i, k := range kinds {
		out[i] = k.info.ID()
	}
	return out
}

func runWorker(ctx context.Context, worker int, cfg *config.Config) (Result, error) {
	w, err := newWorld(worker, cfg)
	if err != nil {
		return Result{}, err
	}
	w.spawn()
	if err := w.verify(); err != nil {
		return w.res, fmt.Errorf("after spawn: %w", err)
	}
	for round := range cfg.Workload.Rounds {
		if round%256 == 0 {
			if err := ctx.Err(); err != nil {
				return w.res, err
			}
		}
		w.step()
	}
	if err := w.verify(); err != nil {
		return w.res, fmt.Errorf("after migration: %w", err)
	}
	w.despawnHalf()
	if err := w.verify(); err != nil {
		return w.res, fmt.Errorf("after despawn: %w", err)
	}
	w.storages.ClearEntities()
	if w.res.Created != w.res.Dropped {
		return w.res, fmt.Errorf("created %d tracked values but dropped %d", w.res.Created, w.res.Dropped)
	}
	return w.res, nil
}

// values fills scratch with random bytes and points one value per kind at it.
func (w *world) values(kinds []kind) []storehouse.ComponentValue {
	w.rng.Read(w.scratch)
	data := unsafe.Pointer(unsafe.SliceData(w.scratch))
	out := make([]storehouse.ComponentValue, len(kinds))
	for i, k := range kinds {
		out[i] = storehouse.ComponentValue{ID: k.info.ID(), Data: data}
		if k.tracked {
			w.res.Created++
		}
	}
	return out
}

func (w *world) sub(region int) *storehouse.SubStorage {
	return w.storages.SubStorages().Index(w.regions[region])
}

func (w *world) tableOf(loc location) storehouse.TableID {
	if loc.full {
		return w.fullTables[loc.region]
	}
	return w.baseTables[loc.region]
}

func (w *world) spawn() {
	for i := range w.locs {
		region := i % len(w.regions)
		e := storehouse.NewEntity(uint32(i), 0)
		tbl := w.sub(region).Tables().MustGet(w.baseTables[region])
		row := tbl.AllocateRow(e, w.values(w.base)...)
		w.locs[i] = location{alive: true, region: region, row: row}
		if i%2 == 0 {
			w.insertSparse(i, false)
			w.locs[i].hasSparse = true
		}
		w.res.Spawned++
		w.res.Live++
	}
}

func (w *world) insertSparse(i int, expectReplace bool) {
	e := storehouse.NewEntity(uint32(i), 0)
	sets := w.sub(w.locs[i].region).SparseSets()
	for _, v := range w.values(w.sparse) {
		set, _ := sets.Get(v.ID)
		if set.Insert(e, v.Data) != expectReplace {
			panic(fmt.Sprintf("sparse insert for entity %d: replace mismatch", i))
		}
	}
}

func (w *world) randomAlive() (int, bool) {
	for range 8 {
		i := w.rng.Intn(len(w.locs))
		if w.locs[i].alive {
			return i, true
		}
	}
	return 0, false
}

func (w *world) step() {
	i, ok := w.randomAlive()
	if !ok {
		return
	}
	switch w.rng.Intn(3) {
	case 0:
		w.toggleExtra(i)
	case 1:
		if len(w.regions) > 1 {
			w.transfer(i)
		}
	case 2:
		if w.locs[i].hasSparse {
			w.insertSparse(i, true)
			w.res.Replaced++
		}
	}
}

func (w *world) fixup(res storehouse.MoveResult, vacated storehouse.TableRow) {
	if res.Swapped {
		w.locs[res.SwappedEntity.Index()].row = vacated
	}
}

func (w *world) toggleExtra(i int) {
	loc := w.locs[i]
	tables := w.sub(loc.region).Tables()
	var res storehouse.MoveResult
	if loc.full {
		src, dst := tables.GetPair(w.fullTables[loc.region], w.baseTables[loc.region])
		res = src.MoveRowTo(dst, loc.row)
	} else {
		src, dst := tables.GetPair(w.baseTables[loc.region], w.fullTables[loc.region])
		res = src.MoveRowTo(dst, loc.row, w.values(w.extra)...)
	}
	w.fixup(res, loc.row)
	w.locs[i].full = !loc.full
	w.locs[i].row = res.NewRow
	w.res.Moved++
}

func (w *world) transfer(i int) {
	loc := w.locs[i]
	target := (loc.region + 1 + w.rng.Intn(len(w.regions)-1)) % len(w.regions)
	moved := loc
	moved.region = target

	subs := w.storages.SubStorages()
	res := subs.TransferRow(w.regions[loc.region], w.tableOf(loc), w.regions[target], w.tableOf(moved), loc.row)
	w.fixup(res, loc.row)
	if loc.hasSparse {
		e := storehouse.NewEntity(uint32(i), 0)
		for _, k := range w.sparse {
			subs.TransferSparse(k.info, w.regions[loc.region], w.regions[target], e)
		}
	}
	moved.row = res.NewRow
	w.locs[i] = moved
	w.res.Transferred++
}

func (w *world) despawnHalf() {
	for i := range w.locs {
		loc := w.locs[i]
		if !loc.alive || w.rng.Intn(2) == 0 {
			continue
		}
		tbl := w.sub(loc.region).Tables().MustGet(w.tableOf(loc))
		if swapped, ok := tbl.SwapRemoveRow(loc.row); ok {
			w.locs[swapped.Index()].row = loc.row
		}
		if loc.hasSparse {
			e := storehouse.NewEntity(uint32(i), 0)
			for _, k := range w.sparse {
				set, _ := w.sub(loc.region).SparseSets().Get(k.info.ID())
				set.Remove(e)
			}
		}
		w.locs[i] = location{}
		w.res.Despawned++
		w.res.Live--
	}
}

// verify checks every table row against the location index and every
// sparse value against the region its entity lives in.
func (w *world) verify() error {
	rows, sparse := 0, 0
	for region := range w.regions {
		sub := w.sub(region)
		for tblID, tbl := range sub.Tables().All() {
			for row, e := range tbl.Entities() {
				loc := w.locs[e.Index()]
				if !loc.alive || loc.region != region || w.tableOf(loc) != tblID || int(loc.row) != row {
					return fmt.Errorf("entity %v found at region %d table %d row %d, index says %+v", e, region, tblID, row, loc)
				}
				rows++
			}
		}
		for _, set := range sub.SparseSets().All() {
			for _, e := range set.Entities() {
				loc := w.locs[e.Index()]
				if !loc.alive || !loc.hasSparse || loc.region != region {
					return fmt.Errorf("sparse value %d for entity %v misplaced in region %d", set.ID(), e, region)
				}
				sparse++
			}
		}
	}
	if rows != w.res.Live {
		return fmt.Errorf("found %d rows for %d live entities", rows, w.res.Live)
	}
	want := 0
	for _, loc := range w.locs {
		if loc.alive && loc.hasSparse {
			want += len(w.sparse)
		}
	}
	if sparse != want {
		return fmt.Errorf("found %d sparse values, want %d", sparse, want)
	}
	return nil
}
