package shop_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/queuesim/shop"
	"github.com/sarchlab/queuesim/simulation"
	"github.com/sarchlab/queuesim/tracing"
)

func countRows(db *sql.DB, table string) int {
	var n int

	err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	Expect(err).NotTo(HaveOccurred())

	return n
}

var _ = Describe("Recording", func() {
	It("should store customers, samples and the server trace", func() {
		path := filepath.Join(GinkgoT().TempDir(), "run")

		s := simulation.MakeBuilder().WithDataRecording(path).Build()

		r, err := shop.NewRun(fixedServiceConfig(30), threeCustomers(), s)
		Expect(err).NotTo(HaveOccurred())

		res, err := r.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect(s.GetDataRecorder().ListTables()).To(ConsistOf(
			tracing.ResourceTraceTable,
			shop.CustomerTable,
			shop.QueueSampleTable,
		))
		Expect(s.Terminate()).To(Succeed())

		db, err := sql.Open("sqlite3", path+".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		Expect(countRows(db, shop.CustomerTable)).To(Equal(3))
		Expect(countRows(db, shop.QueueSampleTable)).
			To(Equal(len(res.Snapshot.QueueLengths)))
		Expect(countRows(db, tracing.ResourceTraceTable)).
			To(Equal(len(r.Tracer().Entries())))
	})
})

var _ = Describe("Monitoring", func() {
	It("should expose the shop and drop the progress bar when done", func() {
		s := simulation.MakeBuilder().
			WithMonitoring().
			WithoutServer().
			Build()
		defer s.Terminate()

		r, err := shop.NewRun(fixedServiceConfig(30), threeCustomers(), s)
		Expect(err).NotTo(HaveOccurred())

		router := s.GetMonitor().Router()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/progress", nil))

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))

		_, err = r.Execute()
		Expect(err).NotTo(HaveOccurred())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/progress", nil))
		Expect(rec.Body.String()).To(Equal("[]"))

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			"/api/list_states", nil))
		Expect(rec.Body.String()).To(Equal(`["server","shop"]`))
	})
})
