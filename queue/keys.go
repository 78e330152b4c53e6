// Copyright 2026 The resched Authors
// This file is part of resched.
//
// resched is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// resched is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with resched.  If not, see <http://www.gnu.org/licenses/>.

package queue

// keys caches the namespace-derived strings a Queue touches on every call,
// exactly as laid out in spec.md §3. Key construction is part of the wire
// contract: multiple worker processes must derive identical strings.
type keys struct {
	ns       string
	pending  string // queue.<ns>
	entries  string // queue.<ns>.entries
	workers  string // queue.<ns>.workers
	payload  string // queue.<ns>.payload
	working  string // queue.<ns>.working.<wid> (this handle's worker)
	active   string // queue.<ns>.active.<wid> (this handle's worker)
}

func newKeys(ns, workerID string) keys {
	return keys{
		ns:      ns,
		pending: "queue." + ns,
		entries: "queue." + ns + ".entries",
		workers: "queue." + ns + ".workers",
		payload: "queue." + ns + ".payload",
		working: workingKey(ns, workerID),
		active:  activeKey(ns, workerID),
	}
}

func workingKey(ns, workerID string) string {
	return "queue." + ns + ".working." + workerID
}

func activeKey(ns, workerID string) string {
	return "queue." + ns + ".active." + workerID
}
