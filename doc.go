/*
Package crawler documents a sequential crawler that mirrors the prayer
catalog of a remote content API onto local or S3 object storage.

The crawler is responsible for:
  - Walking every category listed in category_mapping.json, in file order
  - Paginating each category's prayer listing until the server-reported
    total is reached or the pages run out
  - Mirroring each prayer's raw metadata, audio tracks, and PDF documents
    into a stable directory layout
  - Validating downloaded PDFs and extracting their plain text into
    sidecar files
  - Reporting progress on stdout and failures on stderr while structured
    logs and metrics run alongside

Architecture

The crawler follows Clean Architecture principles with clear separation of concerns:

	├── cmd/                        # Application entry point
	├── internal/
	│   ├── config/                 # Environment-driven configuration provider
	│   ├── domain/
	│   │   ├── base/               # Generic singleton provider/factory
	│   │   ├── entity/
	│   │   │   ├── category/       # Category mapping parsing (JSON + dict literal)
	│   │   │   └── prayer/         # Prayer records and listing pages
	│   │   ├── observability/      # Logger/Metrics ports and provider
	│   │   ├── service/            # Prayer API, download, PDF extraction
	│   │   ├── storage/            # ObjectStorage port and provider
	│   │   └── util/               # Name sanitizing, header and stream helpers
	│   ├── adapters/
	│   │   └── http/               # HTTP client (fetch + streaming download)
	│   ├── infrastructure/
	│   │   ├── observability/      # stdout and Prometheus adapters
	│   │   └── storage/            # filesystem and S3 adapters
	│   └── usecase/                # Paginator, processor, crawler, console
	└── downloads/                  # Mirrored content (filesystem adapter)

Directory Layout

Each prayer is mirrored under its category using sanitized, collision-free
names:

	downloads/
	└── 12 - Morning Prayers/
	    └── 99 - Refuge Prayer/
	        ├── metadata.json          # Raw API record, pretty-printed
	        ├── audio/
	        │   ├── 01 - chant.mp3
	        │   └── 02 - chant (1).mp3
	        └── documents/
	            ├── 01 - text.pdf
	            └── 01 - text.txt      # Extracted plain text

Already-downloaded files are skipped, so an interrupted crawl can simply be
run again.

Error Handling

Failures are contained at the smallest possible scope:
  - A failed track or document download is reported with a [warn] line and
    the prayer continues
  - A download that claims to be a PDF but fails validation is deleted and
    counted as a failed asset
  - A corrupt PDF costs only its text sidecar
  - A failed category is reported with an [error] line on stderr and the
    crawl moves to the next category
  - Only a failed start (storage root or category mapping) exits non-zero

Configuration

The crawler is configured through environment variables, optionally loaded
from .env files:
  - API_BASE_URL: Base URL of the content API
  - CRAWLER_MAPPING_PATH: Path to category_mapping.json
  - STORAGE_ADAPTER: "filesystem" or "s3"
  - HTTP_FETCH_TIMEOUT / HTTP_DOWNLOAD_TIMEOUT / HTTP_MAX_RETRIES
  - METRICS_PROVIDER: "stdout" or "prometheus" (with PUSHGATEWAY_URL)

Observability

Every run carries a crawl_id through all structured log lines. Metrics cover
fetches, downloads, validation failures, extraction failures, and per-category
outcomes, recorded to stdout or pushed to a Prometheus Pushgateway at the end
of the run.
*/
package crawler
