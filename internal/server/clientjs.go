package server

import (
	"fmt"
	"net/http"
)

// handleClientJS serves the landing-page script. It mirrors the
// server-side assignor: sticky visitor id and variant in localStorage,
// an impression on load, and a convert() helper the lead form calls
// after a successful submit. keepalive keeps both beacons alive across
// page navigation.
func (s *Server) handleClientJS(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	serverURL := fmt.Sprintf("%s://%s", scheme, r.Host)

	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Write([]byte(ClientScript(serverURL)))
}

// ClientScript generates the embeddable script with the given server
// URL baked in.
func ClientScript(serverURL string) string {
	return fmt.Sprintf(`(function(){
  var S='%s';
  var VARIANTS=['a','b'];

  // Get or create visitor ID
  var vid=localStorage.getItem('visitor_id');
  if(!vid){
    vid='visitor_'+Date.now()+'_'+Math.random().toString(36).slice(2,11);
    localStorage.setItem('visitor_id',vid);
  }

  // Get or assign variant; reassign anything outside a/b
  var v=localStorage.getItem('ab_variant');
  if(VARIANTS.indexOf(v)===-1){
    v=VARIANTS[Math.floor(Math.random()*VARIANTS.length)];
    localStorage.setItem('ab_variant',v);
  }

  function send(eventType){
    fetch(S+'/track',{
      method:'POST',
      headers:{'Content-Type':'application/json'},
      body:JSON.stringify({
        eventType:eventType,
        variant:v,
        visitorId:vid,
        timestamp:new Date().toISOString(),
        userAgent:navigator.userAgent,
        referrer:document.referrer||'direct'
      }),
      keepalive:true
    }).catch(function(err){console.error(err)});
  }

  // Impression on load
  send('impression');

  // Expose assignment + conversion hook for the lead form
  window.leadline={
    variant:v,
    visitorId:vid,
    convert:function(){send('conversion')}
  };
})();`, serverURL)
}
