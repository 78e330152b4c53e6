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

package scheduler

// keys caches the namespace-derived strings a Scheduler touches, exactly
// as laid out in spec.md §3.
type keys struct {
	waiting    string // schedule:<ns>:waiting
	inprogress string // schedule:<ns>:inprogress
	payload    string // schedule:<ns>:payload
	expiration string // schedule:<ns>:expiration
	working    string // schedule:<ns>:working
}

func newKeys(ns string) keys {
	return keys{
		waiting:    "schedule:" + ns + ":waiting",
		inprogress: "schedule:" + ns + ":inprogress",
		payload:    "schedule:" + ns + ":payload",
		expiration: "schedule:" + ns + ":expiration",
		working:    "schedule:" + ns + ":working",
	}
}
