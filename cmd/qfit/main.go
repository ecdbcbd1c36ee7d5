// Command qfit inspects ATM QFIT granules: it prints header summaries,
// dumps decoded records, computes elevation statistics, and optionally
// catalogs each granule in a SQLite index.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/qfit/internal/catalog"
	"github.com/banshee-data/qfit/internal/config"
	"github.com/banshee-data/qfit/internal/gpstime"
	"github.com/banshee-data/qfit/internal/qfit"
)

func main() {
	var (
		configPath  string
		leapPath    string
		catalogPath string
		lenient     bool
		showInfo    bool
		dumpCount   int
		showStats   bool
	)

	flag.StringVar(&configPath, "config", "", "path to JSON config file")
	flag.StringVar(&leapPath, "leap-seconds", "", "path to a leap-seconds.list (default: bundled snapshot)")
	flag.StringVar(&catalogPath, "catalog", "", "path to sqlite granule catalog (empty: no cataloguing)")
	flag.BoolVar(&lenient, "lenient", false, "skip records with out-of-range fields instead of failing")
	flag.BoolVar(&showInfo, "info", false, "print header summary only")
	flag.IntVar(&dumpCount, "dump", 0, "print up to n decoded records")
	flag.BoolVar(&showStats, "stats", false, "print elevation statistics over all records")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("usage: qfit [flags] granule.qi ...")
	}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		if leapPath == "" {
			leapPath = cfg.GetLeapSecondsPath()
		}
		if catalogPath == "" {
			catalogPath = cfg.GetCatalogPath()
		}
		if !lenient {
			lenient = cfg.GetLenient()
		}
		if dumpCount == 0 && !showInfo && !showStats {
			dumpCount = cfg.GetMaxRecords()
		}
	}

	if leapPath != "" {
		table, err := gpstime.Load(leapPath)
		if err != nil {
			log.Fatalf("load leap seconds: %v", err)
		}
		if table.Expired(time.Now()) {
			log.Printf("warning: leap-second table %s is past its expiry", leapPath)
		}
		gpstime.SetDefault(table)
	}

	var cat *catalog.Catalog
	if catalogPath != "" {
		var err error
		cat, err = catalog.Open(catalogPath)
		if err != nil {
			log.Fatalf("open catalog: %v", err)
		}
		defer cat.Close()
	}

	mode := qfit.Strict
	if lenient {
		mode = qfit.Lenient
	}

	// Default action when no flag picked an output.
	if !showInfo && dumpCount == 0 && !showStats {
		showInfo = true
	}

	for _, path := range flag.Args() {
		if err := processGranule(path, mode, cat, showInfo, dumpCount, showStats); err != nil {
			log.Fatalf("%s: %v", path, err)
		}
	}
}

func processGranule(path string, mode qfit.Mode, cat *catalog.Catalog, showInfo bool, dumpCount int, showStats bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	format, err := qfit.DetectFormat(data)
	if err != nil {
		return err
	}
	header, err := qfit.ReadHeader(data, format)
	if err != nil {
		return err
	}
	reader := qfit.NewReader(bytes.NewReader(data), header, mode)

	if showInfo {
		printInfo(path, header)
	}
	if dumpCount > 0 {
		if err := dumpRecords(path, reader, dumpCount); err != nil {
			return err
		}
	}

	// Stats and cataloguing both need a full pass.
	var records []qfit.Record
	if showStats || cat != nil {
		if err := reader.Reset(); err != nil {
			return err
		}
		records, err = reader.ReadAll()
		if err != nil {
			return err
		}
	}
	if showStats {
		printStats(path, records)
	}
	if cat != nil {
		if err := ingest(cat, path, header, reader.Skipped()); err != nil {
			return err
		}
	}
	return nil
}

func printInfo(path string, h *qfit.Header) {
	fmt.Printf("%s:\n", path)
	fmt.Printf("  format:           %s\n", h.Format)
	fmt.Printf("  bytes per record: %d\n", h.BytesPerRecord)
	fmt.Printf("  data records:     %d\n", h.RecordCount)
	if h.Text != "" {
		fmt.Printf("  header text:      %q\n", h.Text)
	}
	if h.RecordCount > 0 {
		fmt.Printf("  time span:        %.3f s to %.3f s\n", h.FirstSeconds, h.LastSeconds)
	}
	if date, err := qfit.ParseGranuleDate(path); err == nil {
		fmt.Printf("  survey date:      %s\n", date)
		printDayEpochs(date)
	}
}

// printDayEpochs reports the granule day's midnight on the absolute time
// scales downstream archive tooling uses.
func printDayEpochs(date qfit.GranuleDate) {
	midnight := gpstime.Date{Year: date.Year, Month: date.Month, Day: date.Day}
	gps := gpstime.GPSSeconds(midnight)
	fmt.Printf("  day start:        MJD %.1f, GPS %.0f s, J2000 %.0f s\n",
		gpstime.MJD(midnight), gps, gpstime.J2000Seconds(midnight))
	if leaps, err := gpstime.LeapSecondsAt(gps); err == nil {
		fmt.Printf("  leap seconds:     %d (GPS-UTC at day start)\n", leaps)
	}
}

func dumpRecords(path string, r *qfit.Reader, limit int) error {
	if err := r.Reset(); err != nil {
		return err
	}

	// Absolute time needs the survey date from the file name and a leap
	// table; without either the dump still works, minus the j2000 column.
	dayGPS := math.NaN()
	var table *gpstime.Table
	if date, err := qfit.ParseGranuleDate(path); err == nil {
		dayGPS = gpstime.GPSSeconds(gpstime.Date{Year: date.Year, Month: date.Month, Day: date.Day})
		table, _ = gpstime.Default()
	}
	withJ2000 := !math.IsNaN(dayGPS) && table != nil

	fmt.Printf("%s: first %d records\n", path, limit)
	if withJ2000 {
		fmt.Printf("%10s %12s %12s %10s %12s %16s\n", "rel_time", "latitude", "longitude", "elev_m", "gps_hhmmss", "utc_j2000")
	} else {
		fmt.Printf("%10s %12s %12s %10s %12s\n", "rel_time", "latitude", "longitude", "elev_m", "gps_hhmmss")
	}
	for i := 0; i < limit; i++ {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if withJ2000 {
			hour, minute, second := qfit.UnpackGPSTime(rec.GPSTime)
			gps := dayGPS + float64(hour)*3600 + float64(minute)*60 + second
			j2000 := gpstime.J2000Seconds(gpstime.GPSEpoch) + table.UTCFromGPS(gps)
			fmt.Printf("%10.3f %12.6f %12.6f %10.3f %12.3f %16.3f\n",
				rec.RelTime, rec.Latitude, rec.Longitude, rec.Elevation, rec.GPSTime, j2000)
			continue
		}
		fmt.Printf("%10.3f %12.6f %12.6f %10.3f %12.3f\n",
			rec.RelTime, rec.Latitude, rec.Longitude, rec.Elevation, rec.GPSTime)
	}
	return nil
}

func printStats(path string, records []qfit.Record) {
	if len(records) == 0 {
		fmt.Printf("%s: no records\n", path)
		return
	}
	elev := make([]float64, len(records))
	for i, rec := range records {
		elev[i] = rec.Elevation
	}
	sort.Float64s(elev)

	mean, std := stat.MeanStdDev(elev, nil)
	fmt.Printf("%s: elevation over %d records\n", path, len(records))
	fmt.Printf("  min:    %10.3f m\n", elev[0])
	fmt.Printf("  median: %10.3f m\n", stat.Quantile(0.5, stat.Empirical, elev, nil))
	fmt.Printf("  max:    %10.3f m\n", elev[len(elev)-1])
	fmt.Printf("  mean:   %10.3f m\n", mean)
	fmt.Printf("  stddev: %10.3f m\n", std)
}

func ingest(cat *catalog.Catalog, path string, h *qfit.Header, skipped int) error {
	g := catalog.Granule{
		Path:         path,
		Variant:      h.Variant.String(),
		ByteOrder:    h.OrderName(),
		RecordCount:  h.RecordCount,
		SkippedCount: skipped,
		FirstSeconds: h.FirstSeconds,
		LastSeconds:  h.LastSeconds,
		HeaderText:   h.Text,
	}
	if date, err := qfit.ParseGranuleDate(path); err == nil {
		g.GranuleDate = date.String()
	}
	id, err := cat.RecordGranule(g)
	if err != nil {
		return err
	}
	fmt.Printf("%s: catalogued as %s\n", path, id)
	return nil
}
